// internal/models/tax.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type TaxDocument struct {
	BaseModel
	CreatorID   uuid.UUID         `json:"creator_id" gorm:"type:uuid;not null;index"`
	TaxYear     int               `json:"tax_year" gorm:"not null;index"`
	Type        TaxDocumentType   `json:"type" gorm:"type:varchar(20);not null"`
	Status      TaxDocumentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	StorageKey  string            `json:"-" gorm:"size:512"`
	FileName    string            `json:"file_name,omitempty" gorm:"size:255"`
	SubmittedAt *time.Time        `json:"submitted_at"`
	ReviewedAt  *time.Time        `json:"reviewed_at"`
	ReviewedBy  *uuid.UUID        `json:"reviewed_by" gorm:"type:uuid"`
	ReviewNotes string            `json:"review_notes,omitempty" gorm:"type:text"`

	// Relationships
	Creator User `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
}
