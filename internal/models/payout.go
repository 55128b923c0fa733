// internal/models/payout.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Payout struct {
	BaseModel
	CreatorID      uuid.UUID    `json:"creator_id" gorm:"type:uuid;not null;index"`
	LicenseID      *uuid.UUID   `json:"license_id" gorm:"type:uuid;index"`
	AmountCents    int64        `json:"amount_cents" gorm:"not null"`
	Currency       string       `json:"currency" gorm:"size:3;default:'usd'"`
	Status         PayoutStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	StripePayoutID string       `json:"stripe_payout_id,omitempty" gorm:"size:255;index"`
	FailureReason  string       `json:"failure_reason,omitempty" gorm:"type:text"`
	InitiatedAt    *time.Time   `json:"initiated_at"`
	SettledAt      *time.Time   `json:"settled_at"`
	LastPolledAt   *time.Time   `json:"last_polled_at"`

	// Relationships
	Creator User     `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	License *License `json:"license,omitempty" gorm:"foreignKey:LicenseID"`
}

// Terminal reports whether further status polling is pointless.
func (p *Payout) Terminal() bool {
	return p.Status == PayoutStatusPaid || p.Status == PayoutStatusFailed || p.Status == PayoutStatusCanceled
}
