// internal/services/brand_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type BrandService struct {
	db *gorm.DB
}

type CreateBrandRequest struct {
	Name     string                 `json:"name" validate:"required,min=2,max=255"`
	Website  string                 `json:"website,omitempty" validate:"omitempty,url"`
	Industry string                 `json:"industry,omitempty" validate:"max=100"`
	Profile  map[string]interface{} `json:"profile,omitempty"`
}

type UpdateBrandRequest struct {
	Website  string                 `json:"website,omitempty" validate:"omitempty,url"`
	Industry string                 `json:"industry,omitempty" validate:"max=100"`
	Profile  map[string]interface{} `json:"profile,omitempty"`
}

func NewBrandService(db *gorm.DB) *BrandService {
	return &BrandService{db: db}
}

func (s *BrandService) CreateBrand(ownerID uuid.UUID, req *CreateBrandRequest) (*models.Brand, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var owner models.User
	if err := s.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("owner not found: %w", err)
	}
	if owner.UserType != models.UserTypeBrand && owner.UserType != models.UserTypeAdmin {
		return nil, errors.New("only brand accounts can register brands")
	}

	var existing int64
	if err := s.db.Model(&models.Brand{}).Where("name = ?", req.Name).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing > 0 {
		return nil, errors.New("brand name is already taken")
	}

	brand := &models.Brand{
		OwnerID:     ownerID,
		Name:        req.Name,
		Website:     req.Website,
		Industry:    req.Industry,
		ProfileData: models.JSONB(req.Profile),
	}
	if err := s.db.Create(brand).Error; err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}
	return brand, nil
}

func (s *BrandService) GetBrand(id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.Preload("Owner").First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("brand not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &brand, nil
}

func (s *BrandService) UpdateBrand(id, requesterID uuid.UUID, req *UpdateBrandRequest) (*models.Brand, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("brand not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if brand.OwnerID != requesterID {
		return nil, errors.New("unauthorized to update this brand")
	}

	updates := make(map[string]interface{})
	if req.Website != "" {
		updates["website"] = req.Website
	}
	if req.Industry != "" {
		updates["industry"] = req.Industry
	}
	if req.Profile != nil {
		updates["profile_data"] = models.JSONB(req.Profile)
	}
	if len(updates) > 0 {
		if err := s.db.Model(&brand).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update brand: %w", err)
		}
	}
	return &brand, nil
}

// VerifyBrand is the admin action that lifts the spend ceiling enforced
// by the budget check.
func (s *BrandService) VerifyBrand(brandID, adminID uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", brandID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("brand not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if brand.Verified {
		return &brand, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"verified":    true,
		"verified_at": &now,
		"verified_by": &adminID,
	}
	if err := s.db.Model(&brand).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to verify brand: %w", err)
	}

	brand.Verified = true
	brand.VerifiedAt = &now
	brand.VerifiedBy = &adminID
	return &brand, nil
}

func (s *BrandService) ListBrands(ownerID *uuid.UUID, params utils.PaginationParams) ([]models.Brand, int64, error) {
	query := s.db.Model(&models.Brand{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count brands: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "verified"})
	query = utils.ApplyPagination(query, params)

	var brands []models.Brand
	if err := query.Find(&brands).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch brands: %w", err)
	}
	return brands, total, nil
}

// CommittedBudget sums upfront fees across the brand's countable
// licenses. Mirrors what the budget check sees at validation time.
func (s *BrandService) CommittedBudget(brandID uuid.UUID) (int64, error) {
	var committed int64
	err := s.db.Model(&models.License{}).
		Select("COALESCE(SUM(fee_cents), 0)").
		Where("brand_id = ? AND status IN ?", brandID,
			[]models.LicenseStatus{models.LicenseStatusActive, models.LicenseStatusPendingApproval}).
		Scan(&committed).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute committed budget: %w", err)
	}
	return committed, nil
}
