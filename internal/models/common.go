// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeCreator UserType = "creator"
	UserTypeBrand   UserType = "brand"
	UserTypeAdmin   UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBanned   UserStatus = "banned"
)

type AssetStatus string

const (
	AssetStatusDraft     AssetStatus = "draft"
	AssetStatusInReview  AssetStatus = "in_review"
	AssetStatusPublished AssetStatus = "published"
	AssetStatusApproved  AssetStatus = "approved"
	AssetStatusSuspended AssetStatus = "suspended"
)

type OwnershipKind string

const (
	OwnershipKindPrimary   OwnershipKind = "primary"
	OwnershipKindSecondary OwnershipKind = "secondary"
)

type LicenseKind string

const (
	LicenseKindExclusive          LicenseKind = "exclusive"
	LicenseKindExclusiveTerritory LicenseKind = "exclusive_territory"
	LicenseKindNonExclusive       LicenseKind = "non_exclusive"
)

type LicenseStatus string

const (
	LicenseStatusDraft           LicenseStatus = "draft"
	LicenseStatusPendingApproval LicenseStatus = "pending_approval"
	LicenseStatusActive          LicenseStatus = "active"
	LicenseStatusRejected        LicenseStatus = "rejected"
	LicenseStatusRevoked         LicenseStatus = "revoked"
	LicenseStatusExpired         LicenseStatus = "expired"
)

type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusInTransit PayoutStatus = "in_transit"
	PayoutStatusPaid      PayoutStatus = "paid"
	PayoutStatusFailed    PayoutStatus = "failed"
	PayoutStatusCanceled  PayoutStatus = "canceled"
)

type TaxDocumentType string

const (
	TaxDocumentType1099  TaxDocumentType = "1099"
	TaxDocumentTypeW8BEN TaxDocumentType = "w8ben"
	TaxDocumentTypeW9    TaxDocumentType = "w9"
)

type TaxDocumentStatus string

const (
	TaxDocumentStatusPending   TaxDocumentStatus = "pending"
	TaxDocumentStatusSubmitted TaxDocumentStatus = "submitted"
	TaxDocumentStatusAccepted  TaxDocumentStatus = "accepted"
	TaxDocumentStatusRejected  TaxDocumentStatus = "rejected"

	// A later submission for the same year and type replaces this one.
	TaxDocumentStatusSuperseded TaxDocumentStatus = "superseded"
)

type ReportKind string

const (
	ReportKindLicenseActivity  ReportKind = "license_activity"
	ReportKindPayoutSummary    ReportKind = "payout_summary"
	ReportKindAssetPerformance ReportKind = "asset_performance"
)

type ReportStatus string

const (
	ReportStatusPending ReportStatus = "pending"
	ReportStatusReady   ReportStatus = "ready"
	ReportStatusFailed  ReportStatus = "failed"
)
