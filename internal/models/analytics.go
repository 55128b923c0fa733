// internal/models/analytics.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalyticsEvent struct {
	BaseModel
	EventType    string     `json:"event_type" gorm:"size:100;not null;index"`
	ActorID      *uuid.UUID `json:"actor_id" gorm:"type:uuid;index"`
	ResourceType string     `json:"resource_type,omitempty" gorm:"size:50;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	Properties   JSONB      `json:"properties,omitempty" gorm:"type:jsonb"`
	OccurredAt   time.Time  `json:"occurred_at" gorm:"not null;index"`
}

// DailyMetric is an aggregated roll-up over AnalyticsEvent, computed by the
// analytics service.
type DailyMetric struct {
	BaseModel
	MetricName  string    `json:"metric_name" gorm:"size:100;not null;uniqueIndex:idx_daily_metrics_name_date"`
	MetricValue float64   `json:"metric_value" gorm:"type:decimal(15,2);not null"`
	MetricDate  time.Time `json:"metric_date" gorm:"type:date;not null;uniqueIndex:idx_daily_metrics_name_date"`
}
