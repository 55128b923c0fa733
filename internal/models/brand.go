// internal/models/brand.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Brand struct {
	BaseModel
	OwnerID         uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name            string     `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Website         string     `json:"website,omitempty" gorm:"size:512"`
	Industry        string     `json:"industry,omitempty" gorm:"size:100"`
	Verified        bool       `json:"verified" gorm:"default:false;index"`
	VerifiedAt      *time.Time `json:"verified_at"`
	VerifiedBy      *uuid.UUID `json:"verified_by" gorm:"type:uuid"`
	StripeAccountID string     `json:"stripe_account_id,omitempty" gorm:"size:255"`
	ProfileData     JSONB      `json:"profile_data" gorm:"type:jsonb"`

	// Relationships
	Owner    User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Licenses []License `json:"licenses,omitempty" gorm:"foreignKey:BrandID"`
}
