package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/cannon-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// EnsureScanIndexes adds the composite indexes the read paths rely on. Postgres only.
func EnsureScanIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_scan_user_created
		ON scan (user_id, created_at DESC)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_scan_user_created: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_scan_user_completed
		ON scan (user_id, processed_at)
		WHERE deleted_at IS NULL AND status = 'completed';
	`).Error; err != nil {
		return fmt.Errorf("create idx_scan_user_completed: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_chat_message_user_created
		ON chat_message (user_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_chat_message_user_created: %w", err)
	}
	return nil
}
