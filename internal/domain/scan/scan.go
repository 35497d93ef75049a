package scan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// CanStartAnalysis reports whether a new processing attempt may begin from s.
func (s Status) CanStartAnalysis() bool {
	return s == StatusPending || s == StatusFailed
}

type Kind string

const (
	KindImages Kind = "images"
	KindVideo  Kind = "video"
)

// Scan owns the stored inputs of one capture and, once completed, its analysis.
type Scan struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind   Kind      `gorm:"column:kind;not null" json:"kind"`
	Status Status    `gorm:"column:status;not null;index" json:"status"`

	FrontKey string `gorm:"column:front_key" json:"-"`
	LeftKey  string `gorm:"column:left_key" json:"-"`
	RightKey string `gorm:"column:right_key" json:"-"`
	VideoKey string `gorm:"column:video_key" json:"-"`

	Analysis     datatypes.JSON `gorm:"column:analysis" json:"-"`
	OverallScore *float64       `gorm:"column:overall_score" json:"overall_score,omitempty"`
	IsUnlocked   bool           `gorm:"column:is_unlocked;not null;default:false" json:"is_unlocked"`
	ErrorMessage string         `gorm:"column:error_message" json:"error_message,omitempty"`
	Attempts     int            `gorm:"column:attempts;not null;default:0" json:"attempts"`

	ProcessedAt *time.Time     `gorm:"column:processed_at" json:"processed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Scan) TableName() string { return "scan" }
