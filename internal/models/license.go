// internal/models/license.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type License struct {
	BaseModel
	IPAssetID uuid.UUID   `json:"ip_asset_id" gorm:"type:uuid;not null;index"`
	BrandID   uuid.UUID   `json:"brand_id" gorm:"type:uuid;not null;index"`
	Kind      LicenseKind `json:"kind" gorm:"type:varchar(30);not null"`
	StartsAt  time.Time   `json:"starts_at" gorm:"not null;index"`
	EndsAt    time.Time   `json:"ends_at" gorm:"not null;index"`

	FeeCents        int64 `json:"fee_cents" gorm:"not null;default:0"`
	RevenueShareBps int   `json:"revenue_share_bps" gorm:"not null;default:0"`

	// Usage scope
	MediaTypes          pq.StringArray `json:"media_types" gorm:"type:text[]"`
	Placements          pq.StringArray `json:"placements" gorm:"type:text[]"`
	Territories         pq.StringArray `json:"territories" gorm:"type:text[]"`
	ExclusivityCategory string         `json:"exclusivity_category,omitempty" gorm:"size:100;index"`
	RequiresAttribution bool           `json:"requires_attribution" gorm:"default:false"`
	AttributionFormat   string         `json:"attribution_format,omitempty" gorm:"size:255"`

	// Brand ids this license bars from licensing the same asset.
	BlockedCompetitors pq.StringArray `json:"blocked_competitors,omitempty" gorm:"type:text[]"`

	Status          LicenseStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	ApprovedAt      *time.Time    `json:"approved_at"`
	ApprovedBy      *uuid.UUID    `json:"approved_by" gorm:"type:uuid"`
	RejectionReason string        `json:"rejection_reason,omitempty" gorm:"type:text"`
	Metadata        JSONB         `json:"metadata" gorm:"type:jsonb"`

	// Snapshot of the validation report produced at creation time, kept for
	// audit and UI display.
	ValidationReport JSONB `json:"validation_report,omitempty" gorm:"type:jsonb"`

	// Relationships
	IPAsset  IPAsset `json:"ip_asset,omitempty" gorm:"foreignKey:IPAssetID"`
	Brand    Brand   `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Approver *User   `json:"approver,omitempty" gorm:"foreignKey:ApprovedBy"`
}

// Countable reports whether the license occupies validation-relevant state:
// active grants and grants awaiting approval both conflict with new
// candidates and count toward a brand's committed budget.
func (l *License) Countable() bool {
	return l.Status == LicenseStatusActive || l.Status == LicenseStatusPendingApproval
}
