package leaderboard

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cannon-backend/internal/data/repos"
	types "github.com/yungbote/cannon-backend/internal/domain"
	"github.com/yungbote/cannon-backend/internal/platform/apierr"
	"github.com/yungbote/cannon-backend/internal/platform/dbctx"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

const (
	MessageAdminExcluded = "Admins are excluded from leaderboard"
	MessageNoScans       = "Complete a scan to join"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Users   repos.UserRepo
	Scans   repos.ScanRepo
	Entries repos.LeaderboardEntryRepo
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type ListEntry struct {
	Rank           int     `json:"rank"`
	UserID         string  `json:"user_id"`
	UserEmail      string  `json:"user_email"`
	FullName       string  `json:"full_name,omitempty"`
	AvatarURL      string  `json:"avatar_url,omitempty"`
	Score          float64 `json:"score"`
	Level          float64 `json:"level"`
	StreakDays     int     `json:"streak_days"`
	ImprovementPct float64 `json:"improvement_percentage"`
}

type ListResult struct {
	Entries    []ListEntry `json:"entries"`
	TotalUsers int         `json:"total_users"`
}

type MeResult struct {
	Rank           *int    `json:"rank"`
	TotalUsers     int64   `json:"total_users"`
	Score          float64 `json:"score,omitempty"`
	Level          float64 `json:"level,omitempty"`
	StreakDays     int     `json:"streak_days,omitempty"`
	ImprovementPct float64 `json:"improvement_percentage,omitempty"`
	Message        string  `json:"message,omitempty"`
}

func (u Usecases) requirePayer(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	user, err := u.deps.Users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "load_user_failed", err)
	}
	if user == nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if !user.IsPayer(time.Now().UTC()) {
		return nil, apierr.PaymentRequired()
	}
	return user, nil
}

// RecordCompletedScan refreshes the user's entry after a scan completed with overall,
// then recomputes every rank. Admins get no entry.
func (u Usecases) RecordCompletedScan(ctx context.Context, userID uuid.UUID, overall float64) error {
	dbc := dbctx.Context{Ctx: ctx}
	user, err := u.deps.Users.GetByID(dbc, userID)
	if err != nil {
		return err
	}
	if user == nil || user.IsAdmin {
		return nil
	}
	completed, err := u.deps.Scans.ListCompletedByUser(dbc, userID)
	if err != nil {
		return err
	}
	history := make([]ScorePoint, 0, len(completed))
	for _, s := range completed {
		if s.OverallScore == nil {
			continue
		}
		at := s.CreatedAt
		if s.ProcessedAt != nil {
			at = *s.ProcessedAt
		}
		history = append(history, ScorePoint{Overall: *s.OverallScore, At: at})
	}
	prev, err := u.deps.Entries.GetByUserID(dbc, userID)
	if err != nil {
		return err
	}
	entry := ComputeStanding(userID, prev, overall, history)
	if err := u.deps.Entries.Upsert(dbc, entry); err != nil {
		return err
	}
	return u.RecomputeRanks(ctx)
}

// RecomputeRanks reads every entry and writes each changed rank independently.
// Concurrent recomputations may interleave; the last write per entry wins.
func (u Usecases) RecomputeRanks(ctx context.Context) error {
	dbc := dbctx.Context{Ctx: ctx}
	entries, err := u.deps.Entries.ListByScore(dbc)
	if err != nil {
		return err
	}
	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = e.Score
	}
	ranks := DenseRanks(scores)
	for i, e := range entries {
		if e.Rank == ranks[i] {
			continue
		}
		if err := u.deps.Entries.UpdateRank(dbc, e.ID, ranks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (u Usecases) List(ctx context.Context, viewerID uuid.UUID, limit int) (ListResult, error) {
	if _, err := u.requirePayer(ctx, viewerID); err != nil {
		return ListResult{}, err
	}
	rows, err := u.deps.Entries.ListRanked(dbctx.Context{Ctx: ctx}, limit)
	if err != nil {
		return ListResult{}, apierr.New(http.StatusInternalServerError, "load_leaderboard_failed", err)
	}
	out := ListResult{Entries: make([]ListEntry, 0, len(rows))}
	for _, r := range rows {
		out.Entries = append(out.Entries, ListEntry{
			Rank:           r.Rank,
			UserID:         r.UserID.String(),
			UserEmail:      MaskEmail(r.Email),
			FullName:       r.FullName,
			AvatarURL:      r.AvatarURL,
			Score:          r.Score,
			Level:          r.Level,
			StreakDays:     r.StreakDays,
			ImprovementPct: r.ImprovementPct,
		})
	}
	out.TotalUsers = len(out.Entries)
	return out, nil
}

// Me returns the viewer's standing, creating the entry from their latest completed
// scan when it is missing.
func (u Usecases) Me(ctx context.Context, viewerID uuid.UUID) (MeResult, error) {
	user, err := u.requirePayer(ctx, viewerID)
	if err != nil {
		return MeResult{}, err
	}
	if user.IsAdmin {
		return MeResult{Message: MessageAdminExcluded}, nil
	}
	dbc := dbctx.Context{Ctx: ctx}
	entry, err := u.deps.Entries.GetByUserID(dbc, viewerID)
	if err != nil {
		return MeResult{}, apierr.New(http.StatusInternalServerError, "load_leaderboard_failed", err)
	}
	if entry == nil {
		completed, err := u.deps.Scans.ListCompletedByUser(dbc, viewerID)
		if err != nil {
			return MeResult{}, apierr.New(http.StatusInternalServerError, "load_scans_failed", err)
		}
		var latest *types.Scan
		for _, s := range completed {
			if s.OverallScore != nil {
				latest = s
			}
		}
		if latest == nil {
			total, err := u.deps.Entries.Count(dbc)
			if err != nil {
				return MeResult{}, apierr.New(http.StatusInternalServerError, "load_leaderboard_failed", err)
			}
			return MeResult{TotalUsers: total, Message: MessageNoScans}, nil
		}
		if err := u.RecordCompletedScan(ctx, viewerID, *latest.OverallScore); err != nil {
			return MeResult{}, apierr.New(http.StatusInternalServerError, "update_leaderboard_failed", err)
		}
		if entry, err = u.deps.Entries.GetByUserID(dbc, viewerID); err != nil || entry == nil {
			return MeResult{}, apierr.New(http.StatusInternalServerError, "load_leaderboard_failed", err)
		}
	}
	total, err := u.deps.Entries.Count(dbc)
	if err != nil {
		return MeResult{}, apierr.New(http.StatusInternalServerError, "load_leaderboard_failed", err)
	}
	rank := entry.Rank
	return MeResult{
		Rank:           &rank,
		TotalUsers:     total,
		Score:          entry.Score,
		Level:          entry.Level,
		StreakDays:     entry.StreakDays,
		ImprovementPct: entry.ImprovementPct,
	}, nil
}
