package scans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/cannon-backend/internal/data/repos"
	types "github.com/yungbote/cannon-backend/internal/domain"
	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/modules/analysis"
	"github.com/yungbote/cannon-backend/internal/platform/apierr"
	"github.com/yungbote/cannon-backend/internal/platform/blob"
	"github.com/yungbote/cannon-backend/internal/platform/ctxutil"
	"github.com/yungbote/cannon-backend/internal/platform/dbctx"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
	"github.com/yungbote/cannon-backend/internal/platform/redis"
)

const (
	EventScanCompleted = "scan.completed"
	EventScanFailed    = "scan.failed"
)

// Analyzer runs the analysis pipeline. It never fails; degraded runs come back as
// fallback analyses.
type Analyzer interface {
	Run(ctx context.Context, images analysis.ImageSet) scan.ScanAnalysis
	RunVideo(ctx context.Context, video []byte) scan.ScanAnalysis
}

// StandingRecorder is notified after every completed analysis.
type StandingRecorder interface {
	RecordCompletedScan(ctx context.Context, userID uuid.UUID, overall float64) error
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Users repos.UserRepo
	Scans repos.ScanRepo

	Blobs       blob.Store
	Analyzer    Analyzer
	Leaderboard StandingRecorder
	Events      redis.Publisher

	Now func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Events == nil {
		deps.Events = redis.NopPublisher{}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type UploadImagesInput struct {
	Front []byte
	Left  []byte
	Right []byte
}

type UploadResult struct {
	ScanID           string `json:"scan_id"`
	ProcessingStatus string `json:"processing_status"`
	IsUnlocked       bool   `json:"is_unlocked"`
}

type AnalyzeResult struct {
	Message      string   `json:"message"`
	ScanID       string   `json:"scan_id"`
	OverallScore *float64 `json:"overall_score,omitempty"`
}

type HistoryItem struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	ProcessingStatus string    `json:"processing_status"`
	OverallScore     *float64  `json:"overall_score"`
}

type HistoryResult struct {
	Scans []HistoryItem `json:"scans"`
}

func (u Usecases) loadUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
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
	return user, nil
}

func (u Usecases) UploadImages(ctx context.Context, userID uuid.UUID, in UploadImagesInput) (UploadResult, error) {
	if len(in.Front) == 0 || len(in.Left) == 0 || len(in.Right) == 0 {
		return UploadResult{}, apierr.BadRequest("missing_image", errors.New("front, left and right images are required"))
	}
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return UploadResult{}, err
	}
	now := u.deps.Now()
	s := &types.Scan{
		ID:       uuid.New(),
		UserID:   userID,
		Kind:     scan.KindImages,
		FrontKey: InputKey(userID, "front", ".jpg", now),
		LeftKey:  InputKey(userID, "left", ".jpg", now),
		RightKey: InputKey(userID, "right", ".jpg", now),
	}
	g, gctx := errgroup.WithContext(ctx)
	for key, data := range map[string][]byte{s.FrontKey: in.Front, s.LeftKey: in.Left, s.RightKey: in.Right} {
		key, data := key, data
		g.Go(func() error { return u.deps.Blobs.Put(gctx, key, data, "image/jpeg") })
	}
	if err := g.Wait(); err != nil {
		return UploadResult{}, apierr.New(http.StatusInternalServerError, "upload_failed", err)
	}
	return u.createScan(ctx, user, s)
}

func (u Usecases) UploadVideo(ctx context.Context, userID uuid.UUID, video []byte) (UploadResult, error) {
	if len(video) == 0 {
		return UploadResult{}, apierr.BadRequest("missing_video", errors.New("video file is required"))
	}
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return UploadResult{}, err
	}
	s := &types.Scan{
		ID:       uuid.New(),
		UserID:   userID,
		Kind:     scan.KindVideo,
		VideoKey: InputKey(userID, "scan", ".mp4", u.deps.Now()),
	}
	if err := u.deps.Blobs.Put(ctx, s.VideoKey, video, "video/mp4"); err != nil {
		return UploadResult{}, apierr.New(http.StatusInternalServerError, "upload_failed", err)
	}
	return u.createScan(ctx, user, s)
}

func (u Usecases) createScan(ctx context.Context, user *types.User, s *types.Scan) (UploadResult, error) {
	dbc := dbctx.Context{Ctx: ctx}
	s.Status = scan.StatusPending
	s.IsUnlocked = user.IsPayer(u.deps.Now())
	if _, err := u.deps.Scans.Create(dbc, []*types.Scan{s}); err != nil {
		return UploadResult{}, apierr.New(http.StatusInternalServerError, "create_scan_failed", err)
	}
	if !user.FirstScanCompleted {
		if err := u.deps.Users.MarkFirstScanCompleted(dbc, user.ID); err != nil {
			u.deps.Log.Warn("Failed to mark first scan", "user_id", user.ID, "error", err)
		}
	}
	return UploadResult{ScanID: s.ID.String(), ProcessingStatus: string(s.Status), IsUnlocked: s.IsUnlocked}, nil
}

// Analyze claims a pending or failed scan, runs the pipeline on its stored inputs and
// persists the result. Only input-load and persistence failures mark the scan failed;
// pipeline trouble yields a completed scan holding a fallback analysis.
func (u Usecases) Analyze(ctx context.Context, userID, scanID uuid.UUID) (AnalyzeResult, error) {
	if u.deps.Analyzer == nil || u.deps.Blobs == nil {
		return AnalyzeResult{}, apierr.New(http.StatusInternalServerError, "analysis_not_configured", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	s, err := u.deps.Scans.GetByUserAndID(dbc, userID, scanID)
	if err != nil {
		return AnalyzeResult{}, apierr.New(http.StatusInternalServerError, "load_scan_failed", err)
	}
	if s == nil {
		return AnalyzeResult{}, apierr.NotFound("scan_not_found", nil)
	}
	if !s.Status.CanStartAnalysis() {
		return AnalyzeResult{}, apierr.Conflict("scan_"+string(s.Status), fmt.Errorf("scan is %s", s.Status))
	}
	claimed, err := u.deps.Scans.Transition(dbc, s.ID, []scan.Status{scan.StatusPending, scan.StatusFailed}, scan.StatusProcessing)
	if err != nil {
		return AnalyzeResult{}, apierr.New(http.StatusInternalServerError, "update_scan_failed", err)
	}
	if !claimed {
		return AnalyzeResult{}, apierr.Conflict("scan_processing", errors.New("scan is already being analyzed"))
	}

	log := u.deps.Log.With("scan_id", s.ID, "user_id", userID, "kind", s.Kind)
	var result scan.ScanAnalysis
	switch s.Kind {
	case scan.KindVideo:
		video, err := u.deps.Blobs.Get(ctx, s.VideoKey)
		if err != nil {
			return AnalyzeResult{}, u.fail(ctx, log, s, fmt.Errorf("load video: %w", err))
		}
		result = u.deps.Analyzer.RunVideo(ctx, video)
	default:
		images, err := u.loadImages(ctx, s)
		if err != nil {
			return AnalyzeResult{}, u.fail(ctx, log, s, err)
		}
		result = u.deps.Analyzer.Run(ctx, images)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return AnalyzeResult{}, u.fail(ctx, log, s, fmt.Errorf("encode analysis: %w", err))
	}
	overall := result.Metrics.OverallScore
	if err := u.deps.Scans.Complete(dbc, s.ID, raw, overall, u.deps.Now()); err != nil {
		return AnalyzeResult{}, u.fail(ctx, log, s, fmt.Errorf("save analysis: %w", err))
	}
	log.Info("Scan analysis completed", "overall_score", overall)

	if u.deps.Leaderboard != nil {
		if err := u.deps.Leaderboard.RecordCompletedScan(ctx, userID, overall); err != nil {
			log.Warn("Leaderboard update failed", "error", err)
		}
	}
	u.publish(ctx, log, EventScanCompleted, s, map[string]any{"overall_score": overall})

	return AnalyzeResult{Message: "Analysis complete", ScanID: s.ID.String(), OverallScore: &overall}, nil
}

func (u Usecases) loadImages(ctx context.Context, s *types.Scan) (analysis.ImageSet, error) {
	var out analysis.ImageSet
	g, gctx := errgroup.WithContext(ctx)
	for _, in := range []struct {
		key string
		dst *[]byte
	}{{s.FrontKey, &out.Front}, {s.LeftKey, &out.Left}, {s.RightKey, &out.Right}} {
		in := in
		g.Go(func() error {
			data, err := u.deps.Blobs.Get(gctx, in.key)
			if err != nil {
				return fmt.Errorf("load %s: %w", in.key, err)
			}
			if len(data) == 0 {
				return fmt.Errorf("load %s: empty object", in.key)
			}
			*in.dst = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return analysis.ImageSet{}, err
	}
	return out, nil
}

func (u Usecases) fail(ctx context.Context, log *logger.Logger, s *types.Scan, cause error) error {
	log.Error("Scan analysis failed", "error", cause)
	// The request context may already be done; the failure still has to be recorded.
	if err := u.deps.Scans.Fail(dbctx.Context{Ctx: context.WithoutCancel(ctx)}, s.ID, cause.Error()); err != nil {
		log.Error("Failed to mark scan failed", "error", err)
	}
	u.publish(ctx, log, EventScanFailed, s, map[string]any{"error": cause.Error()})
	return apierr.New(http.StatusInternalServerError, "analysis_failed", fmt.Errorf("analysis failed: %w", cause))
}

func (u Usecases) publish(ctx context.Context, log *logger.Logger, typ string, s *types.Scan, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["scan_id"] = s.ID.String()
	if reqID := ctxutil.RequestID(ctx); reqID != "" {
		data["request_id"] = reqID
	}
	ev := redis.Event{Type: typ, UserID: s.UserID.String(), Data: data, At: u.deps.Now()}
	if err := u.deps.Events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		log.Warn("Publish scan event failed", "event", typ, "error", err)
	}
}

func (u Usecases) Latest(ctx context.Context, userID uuid.UUID) (ScanView, error) {
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return ScanView{}, err
	}
	s, err := u.deps.Scans.GetLatestByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return ScanView{}, apierr.New(http.StatusInternalServerError, "load_scan_failed", err)
	}
	if s == nil {
		return ScanView{}, apierr.NotFound("no_scans", errors.New("no scans found"))
	}
	return u.gatedView(s, user)
}

func (u Usecases) ByID(ctx context.Context, userID, scanID uuid.UUID) (ScanView, error) {
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return ScanView{}, err
	}
	s, err := u.deps.Scans.GetByUserAndID(dbctx.Context{Ctx: ctx}, userID, scanID)
	if err != nil {
		return ScanView{}, apierr.New(http.StatusInternalServerError, "load_scan_failed", err)
	}
	if s == nil {
		return ScanView{}, apierr.NotFound("scan_not_found", nil)
	}
	return u.gatedView(s, user)
}

func (u Usecases) gatedView(s *types.Scan, user *types.User) (ScanView, error) {
	v, err := viewOf(s, user.IsPayer(u.deps.Now()))
	if err != nil {
		return ScanView{}, apierr.New(http.StatusInternalServerError, "decode_analysis_failed", err)
	}
	return v, nil
}

func (u Usecases) History(ctx context.Context, userID uuid.UUID, limit int) (HistoryResult, error) {
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return HistoryResult{}, err
	}
	if !user.IsPayer(u.deps.Now()) {
		return HistoryResult{}, apierr.PaymentRequired()
	}
	rows, err := u.deps.Scans.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit)
	if err != nil {
		return HistoryResult{}, apierr.New(http.StatusInternalServerError, "load_scans_failed", err)
	}
	out := HistoryResult{Scans: make([]HistoryItem, 0, len(rows))}
	for _, s := range rows {
		out.Scans = append(out.Scans, HistoryItem{
			ID:               s.ID.String(),
			CreatedAt:        s.CreatedAt,
			ProcessingStatus: string(s.Status),
			OverallScore:     s.OverallScore,
		})
	}
	return out, nil
}

// UnlockAll marks every scan of the user unlocked. Called when payer status is granted.
func (u Usecases) UnlockAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := u.deps.Scans.UnlockAllByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return 0, apierr.New(http.StatusInternalServerError, "unlock_scans_failed", err)
	}
	return n, nil
}
