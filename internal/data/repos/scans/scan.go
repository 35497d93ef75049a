package scans

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/cannon-backend/internal/domain"
	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/platform/dbctx"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

type ScanRepo interface {
	Create(dbc dbctx.Context, rows []*types.Scan) ([]*types.Scan, error)
	GetByUserAndID(dbc dbctx.Context, userID, scanID uuid.UUID) (*types.Scan, error)
	GetLatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.Scan, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Scan, error)
	// ListCompletedByUser returns completed scans oldest first.
	ListCompletedByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Scan, error)
	// Transition moves a scan to `to` only if its current status is one of `from`.
	// It reports whether the row was updated.
	Transition(dbc dbctx.Context, scanID uuid.UUID, from []scan.Status, to scan.Status) (bool, error)
	Complete(dbc dbctx.Context, scanID uuid.UUID, analysis datatypes.JSON, overall float64, at time.Time) error
	Fail(dbc dbctx.Context, scanID uuid.UUID, cause string) error
	UnlockAllByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type scanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScanRepo(db *gorm.DB, baseLog *logger.Logger) ScanRepo {
	return &scanRepo{db: db, log: baseLog.With("repo", "ScanRepo")}
}

func (r *scanRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *scanRepo) Create(dbc dbctx.Context, rows []*types.Scan) ([]*types.Scan, error) {
	if len(rows) == 0 {
		return []*types.Scan{}, nil
	}
	for _, s := range rows {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		if s.Status == "" {
			s.Status = scan.StatusPending
		}
	}
	if err := r.tx(dbc).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scanRepo) GetByUserAndID(dbc dbctx.Context, userID, scanID uuid.UUID) (*types.Scan, error) {
	var s types.Scan
	err := r.tx(dbc).
		Where("id = ? AND user_id = ?", scanID, userID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scanRepo) GetLatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.Scan, error) {
	var out []*types.Scan
	if err := r.tx(dbc).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *scanRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Scan, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var out []*types.Scan
	if err := r.tx(dbc).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scanRepo) ListCompletedByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Scan, error) {
	var out []*types.Scan
	if err := r.tx(dbc).
		Where("user_id = ? AND status = ?", userID, scan.StatusCompleted).
		Order("processed_at ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scanRepo) Transition(dbc dbctx.Context, scanID uuid.UUID, from []scan.Status, to scan.Status) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("missing source statuses")
	}
	updates := map[string]interface{}{"status": to}
	if to == scan.StatusProcessing {
		updates["attempts"] = gorm.Expr("attempts + 1")
		updates["error_message"] = ""
	}
	res := r.tx(dbc).
		Model(&types.Scan{}).
		Where("id = ? AND status IN ?", scanID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *scanRepo) Complete(dbc dbctx.Context, scanID uuid.UUID, analysis datatypes.JSON, overall float64, at time.Time) error {
	res := r.tx(dbc).
		Model(&types.Scan{}).
		Where("id = ? AND status = ?", scanID, scan.StatusProcessing).
		Updates(map[string]interface{}{
			"status":        scan.StatusCompleted,
			"analysis":      analysis,
			"overall_score": overall,
			"processed_at":  at,
			"error_message": "",
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("scan %s is not processing", scanID)
	}
	return nil
}

func (r *scanRepo) Fail(dbc dbctx.Context, scanID uuid.UUID, cause string) error {
	return r.tx(dbc).
		Model(&types.Scan{}).
		Where("id = ? AND status = ?", scanID, scan.StatusProcessing).
		Updates(map[string]interface{}{
			"status":        scan.StatusFailed,
			"error_message": cause,
		}).Error
}

func (r *scanRepo) UnlockAllByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	res := r.tx(dbc).
		Model(&types.Scan{}).
		Where("user_id = ? AND is_unlocked = ?", userID, false).
		Update("is_unlocked", true)
	return res.RowsAffected, res.Error
}
