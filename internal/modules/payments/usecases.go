package payments

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cannon-backend/internal/data/repos"
	"github.com/yungbote/cannon-backend/internal/platform/apierr"
	"github.com/yungbote/cannon-backend/internal/platform/dbctx"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

// ScanUnlocker flips every stored scan of a user to unlocked.
type ScanUnlocker interface {
	UnlockAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Users repos.UserRepo
	Scans ScanUnlocker

	// AllowTestActivation enables self-service activation outside the payment provider.
	// Only development environments set it.
	AllowTestActivation bool
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type ActivateResult struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	UnlockedScans int64  `json:"unlocked_scans"`
}

// GrantPayer marks the user paid with no end date and unlocks their existing scans.
// Re-running it is harmless, so a failed unlock can be retried.
func (u Usecases) GrantPayer(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	err := u.deps.Users.MarkPaid(dbctx.Context{Ctx: ctx}, userID, nil)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if err != nil {
		return 0, apierr.New(http.StatusInternalServerError, "activate_failed", err)
	}
	n, err := u.deps.Scans.UnlockAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	u.deps.Log.Info("Payer status granted", "user_id", userID, "unlocked_scans", n)
	return n, nil
}

// TestActivate is the development stand-in for a completed checkout.
func (u Usecases) TestActivate(ctx context.Context, userID uuid.UUID) (ActivateResult, error) {
	if !u.deps.AllowTestActivation {
		return ActivateResult{}, apierr.New(http.StatusForbidden, "test_activation_disabled",
			errors.New("only available in development mode"))
	}
	n, err := u.GrantPayer(ctx, userID)
	if err != nil {
		return ActivateResult{}, err
	}
	return ActivateResult{
		Status:        "activated",
		Message:       "Subscription activated for testing",
		UnlockedScans: n,
	}, nil
}
