package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is owned by the account subsystem; the scan core only reads payer status
// and flips FirstScanCompleted.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FullName  string    `gorm:"column:full_name" json:"full_name"`
	AvatarURL string    `gorm:"column:avatar_url" json:"avatar_url"`

	IsPaid              bool       `gorm:"column:is_paid;not null;default:false" json:"is_paid"`
	IsAdmin             bool       `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	SubscriptionEndDate *time.Time `gorm:"column:subscription_end_date" json:"subscription_end_date,omitempty"`
	FirstScanCompleted  bool       `gorm:"column:first_scan_completed;not null;default:false" json:"first_scan_completed"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "user" }

// IsPayer reports full-access status at now. Admins always qualify; paid users qualify
// until their subscription end date passes.
func (u *User) IsPayer(now time.Time) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	if !u.IsPaid {
		return false
	}
	return u.SubscriptionEndDate == nil || u.SubscriptionEndDate.After(now)
}
