// internal/services/analytics_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type AnalyticsService struct {
	db *gorm.DB
}

type IngestEventRequest struct {
	EventType    string                 `json:"event_type" validate:"required,max=100"`
	ResourceType string                 `json:"resource_type,omitempty" validate:"max=50"`
	ResourceID   *uuid.UUID             `json:"resource_id,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
	OccurredAt   *time.Time             `json:"occurred_at,omitempty"`
}

type MetricPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Track records a single server-side event. Failures are logged, never
// surfaced; analytics must not fail the operation being tracked.
func (s *AnalyticsService) Track(eventType string, actorID *uuid.UUID, resourceType string, resourceID *uuid.UUID, props map[string]interface{}) {
	event := &models.AnalyticsEvent{
		EventType:    eventType,
		ActorID:      actorID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Properties:   models.JSONB(props),
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.db.Create(event).Error; err != nil {
		logrus.WithError(err).WithField("event_type", eventType).Warn("failed to record analytics event")
	}
}

// IngestEvents accepts a client-submitted batch in one insert.
func (s *AnalyticsService) IngestEvents(actorID uuid.UUID, reqs []IngestEventRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}

	events := make([]models.AnalyticsEvent, 0, len(reqs))
	for i := range reqs {
		if err := utils.ValidateStruct(&reqs[i]); err != nil {
			return 0, fmt.Errorf("event %d invalid: %w", i, err)
		}
		occurred := time.Now().UTC()
		if reqs[i].OccurredAt != nil {
			occurred = reqs[i].OccurredAt.UTC()
		}
		events = append(events, models.AnalyticsEvent{
			EventType:    reqs[i].EventType,
			ActorID:      &actorID,
			ResourceType: reqs[i].ResourceType,
			ResourceID:   reqs[i].ResourceID,
			Properties:   models.JSONB(reqs[i].Properties),
			OccurredAt:   occurred,
		})
	}

	if err := s.db.CreateInBatches(events, 100).Error; err != nil {
		return 0, fmt.Errorf("failed to ingest events: %w", err)
	}
	return len(events), nil
}

// AggregateDaily rolls yesterday's events up into DailyMetric rows.
// Safe to re-run; metrics are upserted per name and date.
func (s *AnalyticsService) AggregateDaily(day time.Time) error {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	type countRow struct {
		EventType string
		Total     int64
	}
	var rows []countRow
	err := s.db.Model(&models.AnalyticsEvent{}).
		Select("event_type, COUNT(*) AS total").
		Where("occurred_at >= ? AND occurred_at < ?", start, end).
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to aggregate events: %w", err)
	}

	for _, row := range rows {
		metric := models.DailyMetric{
			MetricName:  row.EventType,
			MetricValue: float64(row.Total),
			MetricDate:  start,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "metric_name"}, {Name: "metric_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"metric_value"}),
		}).Create(&metric).Error
		if err != nil {
			return fmt.Errorf("failed to upsert daily metric %s: %w", row.EventType, err)
		}
	}
	return nil
}

// MetricSeries returns one point per day for a metric over a date range.
func (s *AnalyticsService) MetricSeries(name string, from, to time.Time) ([]MetricPoint, error) {
	var metrics []models.DailyMetric
	err := s.db.
		Where("metric_name = ? AND metric_date >= ? AND metric_date <= ?", name, from, to).
		Order("metric_date ASC").
		Find(&metrics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metric series: %w", err)
	}

	points := make([]MetricPoint, len(metrics))
	for i, m := range metrics {
		points[i] = MetricPoint{Date: m.MetricDate, Value: m.MetricValue}
	}
	return points, nil
}

// ValidationOutcomes summarizes how often license validation passed and
// failed over a window, split per check.
func (s *AnalyticsService) ValidationOutcomes(from, to time.Time) (map[string]int64, error) {
	type outcomeRow struct {
		EventType string
		Total     int64
	}
	var rows []outcomeRow
	err := s.db.Model(&models.AnalyticsEvent{}).
		Select("event_type, COUNT(*) AS total").
		Where("event_type IN ? AND occurred_at >= ? AND occurred_at < ?",
			[]string{"license.validation_passed", "license.validation_failed", "license.created"}, from, to).
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize validation outcomes: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.EventType] = row.Total
	}
	return out, nil
}
