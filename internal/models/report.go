// internal/models/report.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Report struct {
	BaseModel
	RequesterID uuid.UUID    `json:"requester_id" gorm:"type:uuid;not null;index"`
	Kind        ReportKind   `json:"kind" gorm:"type:varchar(30);not null"`
	Parameters  JSONB        `json:"parameters,omitempty" gorm:"type:jsonb"`
	Status      ReportStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	StorageKey  string       `json:"-" gorm:"size:512"`
	FileName    string       `json:"file_name,omitempty" gorm:"size:255"`
	RowCount    int64        `json:"row_count" gorm:"default:0"`
	FailureNote string       `json:"failure_note,omitempty" gorm:"type:text"`
	CompletedAt *time.Time   `json:"completed_at"`

	// Relationships
	Requester User `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
}
