// internal/services/ip_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

func pqStringArray(v []string) pq.StringArray { return pq.StringArray(v) }

var ErrSharesNotWhole = errors.New("ownership shares must total exactly 100%")

type AssetService struct {
	db             *gorm.DB
	storageService *StorageService
}

type CreateAssetRequest struct {
	Title       string                 `json:"title" validate:"required,min=3,max=255"`
	Description string                 `json:"description" validate:"required,min=10"`
	Category    string                 `json:"category" validate:"required"`
	ContentType string                 `json:"content_type" validate:"required"`
	Tags        []string               `json:"tags,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type UpdateAssetRequest struct {
	Title       string                 `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description string                 `json:"description,omitempty" validate:"omitempty,min=10"`
	Category    string                 `json:"category,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type OwnershipRecordRequest struct {
	CreatorID         uuid.UUID            `json:"creator_id" validate:"required"`
	ShareBps          int                  `json:"share_bps" validate:"required,min=1,max=10000"`
	Kind              models.OwnershipKind `json:"kind" validate:"required,oneof=primary secondary"`
	ContractReference string               `json:"contract_reference,omitempty" validate:"max=255"`
	LegalDocumentURL  string               `json:"legal_document_url,omitempty" validate:"omitempty,url"`
}

type AssetSearchParams struct {
	utils.PaginationParams
	CreatorID *uuid.UUID          `json:"creator_id,omitempty"`
	Status    *models.AssetStatus `json:"status,omitempty"`
	Category  string              `json:"category,omitempty"`
	Search    string              `json:"search,omitempty"`
	Tags      []string            `json:"tags,omitempty"`
}

func NewAssetService(db *gorm.DB, storageService *StorageService) *AssetService {
	return &AssetService{
		db:             db,
		storageService: storageService,
	}
}

// CreateAsset creates the asset in draft with a single primary ownership
// record granting the creator 100%. Co-ownership is carved out afterwards
// with SetOwnership.
func (s *AssetService) CreateAsset(creatorID uuid.UUID, req *CreateAssetRequest, fileURLs []string) (*models.IPAsset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var creator models.User
	if err := s.db.First(&creator, "id = ?", creatorID).Error; err != nil {
		return nil, fmt.Errorf("creator not found: %w", err)
	}
	if creator.Status != models.UserStatusActive {
		return nil, errors.New("creator account is not active")
	}
	if creator.UserType != models.UserTypeCreator && creator.UserType != models.UserTypeAdmin {
		return nil, errors.New("only creators can create assets")
	}

	asset := &models.IPAsset{
		CreatorID:   creatorID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ContentType: req.ContentType,
		FileURLs:    fileURLs,
		Tags:        req.Tags,
		Metadata:    models.JSONB(req.Metadata),
		Status:      models.AssetStatusDraft,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(asset).Error; err != nil {
			return err
		}
		return tx.Create(&models.OwnershipRecord{
			IPAssetID: asset.ID,
			CreatorID: creatorID,
			ShareBps:  10000,
			Kind:      models.OwnershipKindPrimary,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	s.db.Preload("Creator").Preload("Ownerships").First(asset, "id = ?", asset.ID)
	return asset, nil
}

func (s *AssetService) GetAsset(id uuid.UUID, userID *uuid.UUID) (*models.IPAsset, error) {
	var asset models.IPAsset
	query := s.db.Preload("Creator").Preload("Ownerships").Preload("Ownerships.Creator")

	if err := query.First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("asset not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Drafts and suspended assets are visible only to their creator
	if !asset.Licensable() && asset.Status != models.AssetStatusInReview &&
		(userID == nil || *userID != asset.CreatorID) {
		return nil, errors.New("asset not found")
	}
	return &asset, nil
}

func (s *AssetService) UpdateAsset(id, creatorID uuid.UUID, req *UpdateAssetRequest) (*models.IPAsset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var asset models.IPAsset
	if err := s.db.First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("asset not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if asset.CreatorID != creatorID {
		return nil, errors.New("unauthorized to update this asset")
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Tags != nil {
		updates["tags"] = pqStringArray(req.Tags)
	}
	if req.Metadata != nil {
		updates["metadata"] = models.JSONB(req.Metadata)
	}

	// Content changes on a published asset send it back through review
	if asset.Status == models.AssetStatusPublished && (req.Title != "" || req.Description != "") {
		updates["status"] = models.AssetStatusInReview
	}

	if err := s.db.Model(&asset).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	s.db.Preload("Creator").Preload("Ownerships").First(&asset, "id = ?", id)
	return &asset, nil
}

func (s *AssetService) DeleteAsset(id, creatorID uuid.UUID) error {
	var asset models.IPAsset
	if err := s.db.First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("asset not found")
		}
		return fmt.Errorf("database error: %w", err)
	}
	if asset.CreatorID != creatorID {
		return errors.New("unauthorized to delete this asset")
	}

	var licenseCount int64
	if err := s.db.Model(&models.License{}).
		Where("ip_asset_id = ? AND status IN ?", id,
			[]models.LicenseStatus{models.LicenseStatusActive, models.LicenseStatusPendingApproval}).
		Count(&licenseCount).Error; err != nil {
		return fmt.Errorf("failed to check licenses: %w", err)
	}
	if licenseCount > 0 {
		return errors.New("cannot delete an asset with active or pending licenses")
	}

	if err := s.db.Delete(&asset).Error; err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

// SetOwnership replaces the asset's ownership table in one transaction.
// The split must cover the whole asset and contain exactly one primary
// record.
func (s *AssetService) SetOwnership(assetID, requesterID uuid.UUID, records []OwnershipRecordRequest) (*models.IPAsset, error) {
	if len(records) == 0 {
		return nil, errors.New("at least one ownership record is required")
	}

	var asset models.IPAsset
	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("asset not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if asset.CreatorID != requesterID {
		return nil, errors.New("unauthorized to change ownership of this asset")
	}

	shareSum := 0
	primaries := 0
	seen := make(map[uuid.UUID]bool, len(records))
	for i := range records {
		if err := utils.ValidateStruct(&records[i]); err != nil {
			return nil, fmt.Errorf("ownership record %d invalid: %w", i, err)
		}
		if seen[records[i].CreatorID] {
			return nil, fmt.Errorf("creator %s appears in more than one ownership record", records[i].CreatorID)
		}
		seen[records[i].CreatorID] = true
		shareSum += records[i].ShareBps
		if records[i].Kind == models.OwnershipKindPrimary {
			primaries++
		}
	}
	if shareSum != 10000 {
		return nil, ErrSharesNotWhole
	}
	if primaries != 1 {
		return nil, errors.New("exactly one primary owner is required")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ip_asset_id = ?", assetID).Delete(&models.OwnershipRecord{}).Error; err != nil {
			return err
		}
		for _, rec := range records {
			var owner models.User
			if err := tx.First(&owner, "id = ?", rec.CreatorID).Error; err != nil {
				return fmt.Errorf("owner %s not found", rec.CreatorID)
			}
			record := models.OwnershipRecord{
				IPAssetID:         assetID,
				CreatorID:         rec.CreatorID,
				ShareBps:          rec.ShareBps,
				Kind:              rec.Kind,
				ContractReference: rec.ContractReference,
				LegalDocumentURL:  rec.LegalDocumentURL,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace ownership records: %w", err)
	}

	s.db.Preload("Ownerships").Preload("Ownerships.Creator").First(&asset, "id = ?", assetID)
	return &asset, nil
}

// PublishAsset moves a draft or reviewed asset to published. Publication
// requires a structurally sound ownership split; the same rules the
// validation engine asserts per license.
func (s *AssetService) PublishAsset(assetID, requesterID uuid.UUID) (*models.IPAsset, error) {
	var asset models.IPAsset
	if err := s.db.Preload("Ownerships").First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("asset not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if asset.CreatorID != requesterID {
		return nil, errors.New("unauthorized to publish this asset")
	}
	if asset.Status != models.AssetStatusDraft && asset.Status != models.AssetStatusInReview {
		return nil, fmt.Errorf("asset cannot be published from status %s", asset.Status)
	}

	shareSum := 0
	primaries := 0
	for _, rec := range asset.Ownerships {
		shareSum += rec.ShareBps
		if rec.Kind == models.OwnershipKindPrimary {
			primaries++
		}
		if rec.Disputed {
			return nil, errors.New("cannot publish an asset with disputed ownership")
		}
	}
	if shareSum != 10000 {
		return nil, ErrSharesNotWhole
	}
	if primaries != 1 {
		return nil, errors.New("exactly one primary owner is required")
	}

	if err := s.db.Model(&asset).Update("status", models.AssetStatusPublished).Error; err != nil {
		return nil, fmt.Errorf("failed to publish asset: %w", err)
	}
	asset.Status = models.AssetStatusPublished
	return &asset, nil
}

// FlagDispute marks an ownership record disputed; any owner of the asset
// can raise one. Active licenses are unaffected, but new ones will fail
// validation until the dispute clears.
func (s *AssetService) FlagDispute(assetID, recordID, requesterID uuid.UUID, disputed bool) (*models.OwnershipRecord, error) {
	var record models.OwnershipRecord
	if err := s.db.First(&record, "id = ? AND ip_asset_id = ?", recordID, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("ownership record not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var requesterStake int64
	if err := s.db.Model(&models.OwnershipRecord{}).
		Where("ip_asset_id = ? AND creator_id = ?", assetID, requesterID).
		Count(&requesterStake).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if requesterStake == 0 {
		return nil, errors.New("only owners of the asset can flag disputes")
	}

	if err := s.db.Model(&record).Update("disputed", disputed).Error; err != nil {
		return nil, fmt.Errorf("failed to update dispute flag: %w", err)
	}
	record.Disputed = disputed
	return &record, nil
}

func (s *AssetService) SearchAssets(params *AssetSearchParams) ([]models.IPAsset, int64, error) {
	query := s.db.Model(&models.IPAsset{}).Preload("Creator")

	if params.CreatorID != nil {
		query = query.Where("creator_id = ?", *params.CreatorID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else {
		query = query.Where("status IN ?", []models.AssetStatus{models.AssetStatusPublished, models.AssetStatusApproved})
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", pqStringArray(params.Tags))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "title", "category"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var assets []models.IPAsset
	if err := query.Find(&assets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch assets: %w", err)
	}
	return assets, total, nil
}
