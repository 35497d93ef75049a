package leaderboard

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one user's standing. Score is the best overall score seen, on a 0-100 scale.
type Entry struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Score          float64    `gorm:"column:score;not null;default:0;index" json:"score"`
	Rank           int        `gorm:"column:rank;not null;default:0" json:"rank"`
	Level          float64    `gorm:"column:level;not null;default:0" json:"level"`
	StreakDays     int        `gorm:"column:streak_days;not null;default:0" json:"streak_days"`
	ScansCount     int        `gorm:"column:scans_count;not null;default:0" json:"scans_count"`
	ImprovementPct float64    `gorm:"column:improvement_pct;not null;default:0" json:"improvement_percentage"`
	LastScanAt     *time.Time `gorm:"column:last_scan_at" json:"last_scan_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (Entry) TableName() string { return "leaderboard_entry" }
