package leaderboard

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/cannon-backend/internal/domain"
	"github.com/yungbote/cannon-backend/internal/platform/dbctx"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

// RankedRow is an entry joined with the public fields of its user.
type RankedRow struct {
	types.LeaderboardEntry
	Email     string
	FullName  string
	AvatarURL string
}

type EntryRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.LeaderboardEntry, error)
	// Upsert inserts or replaces the standing columns of the user's entry, keeping the
	// higher of the stored and new score. Rank is untouched.
	Upsert(dbc dbctx.Context, entry *types.LeaderboardEntry) error
	// ListByScore returns every entry, best score first.
	ListByScore(dbc dbctx.Context) ([]*types.LeaderboardEntry, error)
	UpdateRank(dbc dbctx.Context, entryID uuid.UUID, rank int) error
	Count(dbc dbctx.Context) (int64, error)
	// ListRanked returns the top entries of non-admin users in rank order.
	ListRanked(dbc dbctx.Context, limit int) ([]RankedRow, error)
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	return &entryRepo{db: db, log: baseLog.With("repo", "LeaderboardEntryRepo")}
}

func (r *entryRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *entryRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.LeaderboardEntry, error) {
	var e types.LeaderboardEntry
	err := r.tx(dbc).Where("user_id = ?", userID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entryRepo) Upsert(dbc dbctx.Context, entry *types.LeaderboardEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	set := map[string]interface{}{
		// Best score never decreases.
		"score": gorm.Expr(r.greatest() + "(leaderboard_entry.score, excluded.score)"),
	}
	for _, col := range []string{"level", "streak_days", "scans_count", "improvement_pct", "last_scan_at", "updated_at"} {
		set[col] = gorm.Expr("excluded." + col)
	}
	return r.tx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(set),
		}).
		Create(entry).Error
}

// greatest names the two-argument max function of the connected dialect.
func (r *entryRepo) greatest() string {
	if r.db.Dialector.Name() == "sqlite" {
		return "MAX"
	}
	return "GREATEST"
}

func (r *entryRepo) ListByScore(dbc dbctx.Context) ([]*types.LeaderboardEntry, error) {
	var out []*types.LeaderboardEntry
	if err := r.tx(dbc).
		Order("score DESC").
		Order("updated_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *entryRepo) UpdateRank(dbc dbctx.Context, entryID uuid.UUID, rank int) error {
	return r.tx(dbc).
		Model(&types.LeaderboardEntry{}).
		Where("id = ?", entryID).
		UpdateColumn("rank", rank).Error
}

func (r *entryRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.tx(dbc).Model(&types.LeaderboardEntry{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *entryRepo) ListRanked(dbc dbctx.Context, limit int) ([]RankedRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []RankedRow
	if err := r.tx(dbc).
		Table("leaderboard_entry AS e").
		Select("e.*, u.email AS email, u.full_name AS full_name, u.avatar_url AS avatar_url").
		Joins(`JOIN "user" u ON u.id = e.user_id AND u.deleted_at IS NULL`).
		Where("u.is_admin = ?", false).
		Order("e.rank ASC").
		Order("e.score DESC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
