// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	BaseModel
	UserID  uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Type    string     `json:"type" gorm:"size:50;not null;index"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Data    JSONB      `json:"data,omitempty" gorm:"type:jsonb"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// NotificationPreference controls which categories a user receives and over
// which channels. One row per user.
type NotificationPreference struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`

	EmailEnabled bool `json:"email_enabled" gorm:"default:true"`
	InAppEnabled bool `json:"in_app_enabled" gorm:"default:true"`

	LicenseUpdates bool `json:"license_updates" gorm:"default:true"`
	PayoutUpdates  bool `json:"payout_updates" gorm:"default:true"`
	TaxReminders   bool `json:"tax_reminders" gorm:"default:true"`
	Marketing      bool `json:"marketing" gorm:"default:false"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
