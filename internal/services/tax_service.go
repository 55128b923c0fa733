// internal/services/tax_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/config"
	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type TaxService struct {
	db             *gorm.DB
	config         *config.Config
	storageService *StorageService
}

type SubmitTaxDocumentRequest struct {
	TaxYear int                    `json:"tax_year" validate:"required,min=2000,max=2100"`
	Type    models.TaxDocumentType `json:"type" validate:"required,oneof=1099 w8ben w9"`
}

type ReviewTaxDocumentRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes,omitempty"`
}

func NewTaxService(db *gorm.DB, config *config.Config, storageService *StorageService) *TaxService {
	return &TaxService{
		db:             db,
		config:         config,
		storageService: storageService,
	}
}

// SubmitDocument uploads the form to private storage and records the
// submission. A resubmission for the same year and type supersedes the
// previous document.
func (s *TaxService) SubmitDocument(creatorID uuid.UUID, req *SubmitTaxDocumentRequest, file multipart.File, header *multipart.FileHeader) (*models.TaxDocument, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	stored, err := s.storageService.UploadFile(file, header, s.storageService.GetDefaultUploadOptions("tax_documents"))
	if err != nil {
		return nil, fmt.Errorf("failed to store tax document: %w", err)
	}

	now := time.Now()
	doc := &models.TaxDocument{
		CreatorID:   creatorID,
		TaxYear:     req.TaxYear,
		Type:        req.Type,
		Status:      models.TaxDocumentStatusSubmitted,
		StorageKey:  stored.Key,
		FileName:    header.Filename,
		SubmittedAt: &now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Supersede any earlier submission for the same year/type
		res := tx.Model(&models.TaxDocument{}).
			Where("creator_id = ? AND tax_year = ? AND type = ? AND status <> ?",
				creatorID, req.TaxYear, req.Type, models.TaxDocumentStatusSuperseded).
			Update("status", models.TaxDocumentStatusSuperseded)
		if res.Error != nil {
			return res.Error
		}
		return tx.Create(doc).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record tax document: %w", err)
	}

	return doc, nil
}

func (s *TaxService) GetDocument(requesterID, documentID uuid.UUID, isAdmin bool) (*models.TaxDocument, error) {
	var doc models.TaxDocument
	if err := s.db.First(&doc, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("tax document not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if doc.CreatorID != requesterID && !isAdmin {
		return nil, errors.New("insufficient permissions")
	}
	return &doc, nil
}

// DownloadURL mints a short-lived presigned URL for the stored form.
func (s *TaxService) DownloadURL(requesterID, documentID uuid.UUID, isAdmin bool) (string, error) {
	doc, err := s.GetDocument(requesterID, documentID, isAdmin)
	if err != nil {
		return "", err
	}
	if doc.StorageKey == "" {
		return "", errors.New("tax document has no stored file")
	}
	return s.storageService.PresignedURL(doc.StorageKey)
}

func (s *TaxService) ListDocuments(creatorID uuid.UUID, taxYear int, params utils.PaginationParams) ([]models.TaxDocument, int64, error) {
	query := s.db.Model(&models.TaxDocument{}).Where("creator_id = ?", creatorID)
	if taxYear > 0 {
		query = query.Where("tax_year = ?", taxYear)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tax documents: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "tax_year", "status"})
	query = utils.ApplyPagination(query, params)

	var docs []models.TaxDocument
	if err := query.Find(&docs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tax documents: %w", err)
	}
	return docs, total, nil
}

// ReviewDocument is the admin approval step.
func (s *TaxService) ReviewDocument(reviewerID, documentID uuid.UUID, req *ReviewTaxDocumentRequest) (*models.TaxDocument, error) {
	var doc models.TaxDocument
	if err := s.db.First(&doc, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("tax document not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if doc.Status != models.TaxDocumentStatusSubmitted {
		return nil, fmt.Errorf("tax document is not awaiting review (status %s)", doc.Status)
	}

	now := time.Now()
	doc.ReviewedAt = &now
	doc.ReviewedBy = &reviewerID
	doc.ReviewNotes = req.Notes
	if req.Approve {
		doc.Status = models.TaxDocumentStatusAccepted
	} else {
		doc.Status = models.TaxDocumentStatusRejected
	}

	if err := s.db.Save(&doc).Error; err != nil {
		return nil, fmt.Errorf("failed to update tax document: %w", err)
	}
	return &doc, nil
}

// MissingForYear lists creators who earned payouts in a tax year without
// an approved document on file. Used for reminder campaigns.
func (s *TaxService) MissingForYear(taxYear int) ([]uuid.UUID, error) {
	start := time.Date(taxYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var creatorIDs []uuid.UUID
	err := s.db.Model(&models.Payout{}).
		Distinct("payouts.creator_id").
		Where("payouts.status = ? AND payouts.settled_at >= ? AND payouts.settled_at < ?",
			models.PayoutStatusPaid, start, end).
		Where("NOT EXISTS (SELECT 1 FROM tax_documents td WHERE td.creator_id = payouts.creator_id AND td.tax_year = ? AND td.status = ? AND td.deleted_at IS NULL)",
			taxYear, models.TaxDocumentStatusAccepted).
		Pluck("payouts.creator_id", &creatorIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute missing tax documents: %w", err)
	}
	return creatorIDs, nil
}
