// internal/models/ip_asset.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type IPAsset struct {
	BaseModel
	CreatorID   uuid.UUID      `json:"creator_id" gorm:"type:uuid;not null;index"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"size:100;index"`
	ContentType string         `json:"content_type" gorm:"size:50"`
	FileURLs    pq.StringArray `json:"file_urls" gorm:"type:text[]"`
	Metadata    JSONB          `json:"metadata" gorm:"type:jsonb"`
	Status      AssetStatus    `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`

	// Relationships
	Creator    User              `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Ownerships []OwnershipRecord `json:"ownerships,omitempty" gorm:"foreignKey:IPAssetID"`
	Licenses   []License         `json:"licenses,omitempty" gorm:"foreignKey:IPAssetID"`
}

// Licensable reports whether the asset's lifecycle status admits new
// licenses. Soft deletion is tracked separately via DeletedAt.
func (a *IPAsset) Licensable() bool {
	return a.Status == AssetStatusPublished || a.Status == AssetStatusApproved
}

type OwnershipRecord struct {
	BaseModel
	IPAssetID         uuid.UUID     `json:"ip_asset_id" gorm:"type:uuid;not null;index"`
	CreatorID         uuid.UUID     `json:"creator_id" gorm:"type:uuid;not null;index"`
	ShareBps          int           `json:"share_bps" gorm:"not null"`
	Kind              OwnershipKind `json:"kind" gorm:"type:varchar(20);not null;default:'secondary'"`
	Disputed          bool          `json:"disputed" gorm:"default:false"`
	ContractReference string        `json:"contract_reference,omitempty" gorm:"size:255"`
	LegalDocumentURL  string        `json:"legal_document_url,omitempty" gorm:"size:512"`

	// Relationships
	IPAsset IPAsset `json:"ip_asset,omitempty" gorm:"foreignKey:IPAssetID"`
	Creator User    `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
}
