package app

import (
	"context"
	"fmt"

	"github.com/yungbote/cannon-backend/internal/platform/blob"
	"github.com/yungbote/cannon-backend/internal/platform/gcp"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

var newBucketStore = gcp.NewBucketStore

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode   StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorConnectFailed StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code  StorageProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf("object storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveBlobStore picks the scan input store for cfg.ObjectStorageMode.
func resolveBlobStore(ctx context.Context, log *logger.Logger, cfg Config) (blob.Store, error) {
	log.Info("Selecting object storage provider", "mode", cfg.ObjectStorageMode)
	switch cfg.ObjectStorageMode {
	case StorageModeLocal:
		store, err := blob.NewLocalStore(log, cfg.LocalStorageDir)
		if err != nil {
			return nil, &StorageProviderBootstrapError{Code: StorageProviderBootstrapErrorConnectFailed, Mode: cfg.ObjectStorageMode, Cause: err}
		}
		return store, nil
	case StorageModeGCS:
		store, err := newBucketStore(ctx, log)
		if err != nil {
			log.Error("Object storage provider bootstrap failed", "mode", cfg.ObjectStorageMode, "error", err)
			return nil, &StorageProviderBootstrapError{Code: StorageProviderBootstrapErrorConnectFailed, Mode: cfg.ObjectStorageMode, Cause: err}
		}
		return store, nil
	default:
		return nil, &StorageProviderBootstrapError{
			Code:  StorageProviderBootstrapErrorInvalidMode,
			Mode:  cfg.ObjectStorageMode,
			Cause: fmt.Errorf("unsupported object storage mode %q", cfg.ObjectStorageMode),
		}
	}
}
