// internal/services/report_service.go
package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type ReportService struct {
	db             *gorm.DB
	storageService *StorageService
}

type RequestReportRequest struct {
	Kind models.ReportKind      `json:"kind" validate:"required,oneof=license_activity payout_summary asset_performance"`
	From *time.Time             `json:"from,omitempty"`
	To   *time.Time             `json:"to,omitempty"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func NewReportService(db *gorm.DB, storageService *StorageService) *ReportService {
	return &ReportService{
		db:             db,
		storageService: storageService,
	}
}

// RequestReport records the request and generates the export in the
// background. The caller polls GetReport until the status is ready.
func (s *ReportService) RequestReport(requesterID uuid.UUID, req *RequestReportRequest) (*models.Report, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	params := models.JSONB{}
	if req.From != nil {
		params["from"] = req.From.Format(time.RFC3339)
	}
	if req.To != nil {
		params["to"] = req.To.Format(time.RFC3339)
	}
	for k, v := range req.Meta {
		params[k] = v
	}

	report := &models.Report{
		RequesterID: requesterID,
		Kind:        req.Kind,
		Parameters:  params,
		Status:      models.ReportStatusPending,
	}
	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	go s.generate(report.ID)

	return report, nil
}

func (s *ReportService) GetReport(requesterID, reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("report not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if report.RequesterID != requesterID {
		return nil, errors.New("insufficient permissions")
	}
	return &report, nil
}

func (s *ReportService) ListReports(requesterID uuid.UUID, params utils.PaginationParams) ([]models.Report, int64, error) {
	query := s.db.Model(&models.Report{}).Where("requester_id = ?", requesterID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "kind", "status"})
	query = utils.ApplyPagination(query, params)

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reports: %w", err)
	}
	return reports, total, nil
}

// DownloadURL mints a presigned URL for a ready report.
func (s *ReportService) DownloadURL(requesterID, reportID uuid.UUID) (string, error) {
	report, err := s.GetReport(requesterID, reportID)
	if err != nil {
		return "", err
	}
	if report.Status != models.ReportStatusReady {
		return "", fmt.Errorf("report is not ready (status %s)", report.Status)
	}
	return s.storageService.PresignedURL(report.StorageKey)
}

func (s *ReportService) generate(reportID uuid.UUID) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		logrus.WithError(err).WithField("report_id", reportID).Error("report generation aborted: record not found")
		return
	}

	content, rows, err := s.buildCSV(&report)
	if err != nil {
		s.markFailed(&report, err)
		return
	}

	fileName := fmt.Sprintf("%s_%s.csv", report.Kind, time.Now().Format("20060102_150405"))
	key := fmt.Sprintf("reports/%s/%s", report.RequesterID, fileName)
	if _, err := s.storageService.UploadBytes(content, key, "text/csv"); err != nil {
		s.markFailed(&report, err)
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.ReportStatusReady,
		"storage_key":  key,
		"file_name":    fileName,
		"row_count":    rows,
		"completed_at": &now,
	}
	if err := s.db.Model(&report).Updates(updates).Error; err != nil {
		logrus.WithError(err).WithField("report_id", reportID).Error("failed to finalize report")
	}
}

func (s *ReportService) markFailed(report *models.Report, cause error) {
	logrus.WithError(cause).WithField("report_id", report.ID).Error("report generation failed")
	now := time.Now()
	s.db.Model(report).Updates(map[string]interface{}{
		"status":       models.ReportStatusFailed,
		"failure_note": cause.Error(),
		"completed_at": &now,
	})
}

func (s *ReportService) buildCSV(report *models.Report) ([]byte, int64, error) {
	from, to := s.window(report)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	var rows int64

	switch report.Kind {
	case models.ReportKindLicenseActivity:
		w.Write([]string{"license_id", "asset_title", "brand_name", "kind", "status", "fee_cents", "starts_at", "ends_at", "created_at"})

		var licenses []models.License
		err := s.db.Preload("IPAsset").Preload("Brand").
			Where("created_at >= ? AND created_at < ?", from, to).
			Order("created_at ASC").
			Find(&licenses).Error
		if err != nil {
			return nil, 0, fmt.Errorf("failed to fetch licenses: %w", err)
		}

		for _, l := range licenses {
			w.Write([]string{
				l.ID.String(),
				l.IPAsset.Title,
				l.Brand.Name,
				string(l.Kind),
				string(l.Status),
				strconv.FormatInt(l.FeeCents, 10),
				l.StartsAt.Format("2006-01-02"),
				l.EndsAt.Format("2006-01-02"),
				l.CreatedAt.Format(time.RFC3339),
			})
			rows++
		}

	case models.ReportKindPayoutSummary:
		w.Write([]string{"payout_id", "creator_id", "amount_cents", "currency", "status", "initiated_at", "settled_at"})

		var payouts []models.Payout
		err := s.db.
			Where("created_at >= ? AND created_at < ?", from, to).
			Order("created_at ASC").
			Find(&payouts).Error
		if err != nil {
			return nil, 0, fmt.Errorf("failed to fetch payouts: %w", err)
		}

		for _, p := range payouts {
			w.Write([]string{
				p.ID.String(),
				p.CreatorID.String(),
				strconv.FormatInt(p.AmountCents, 10),
				p.Currency,
				string(p.Status),
				formatNullableTime(p.InitiatedAt),
				formatNullableTime(p.SettledAt),
			})
			rows++
		}

	case models.ReportKindAssetPerformance:
		w.Write([]string{"asset_id", "title", "license_count", "total_fee_cents"})

		type perfRow struct {
			AssetID       uuid.UUID
			Title         string
			LicenseCount  int64
			TotalFeeCents int64
		}
		var perf []perfRow
		err := s.db.Model(&models.IPAsset{}).
			Select("ip_assets.id AS asset_id, ip_assets.title, COUNT(licenses.id) AS license_count, COALESCE(SUM(licenses.fee_cents), 0) AS total_fee_cents").
			Joins("LEFT JOIN licenses ON licenses.ip_asset_id = ip_assets.id AND licenses.status = ? AND licenses.created_at >= ? AND licenses.created_at < ?",
				models.LicenseStatusActive, from, to).
			Group("ip_assets.id, ip_assets.title").
			Order("total_fee_cents DESC").
			Scan(&perf).Error
		if err != nil {
			return nil, 0, fmt.Errorf("failed to fetch asset performance: %w", err)
		}

		for _, p := range perf {
			w.Write([]string{
				p.AssetID.String(),
				p.Title,
				strconv.FormatInt(p.LicenseCount, 10),
				strconv.FormatInt(p.TotalFeeCents, 10),
			})
			rows++
		}

	default:
		return nil, 0, fmt.Errorf("unknown report kind %q", report.Kind)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), rows, nil
}

func (s *ReportService) window(report *models.Report) (time.Time, time.Time) {
	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	to := now

	if v, ok := report.Parameters["from"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v, ok := report.Parameters["to"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}
	return from, to
}

func formatNullableTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
