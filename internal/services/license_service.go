// internal/services/license_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/utils"
	"github.com/brandcraft/licensing-backend/internal/validation"
)

// ErrValidationFailed marks a create attempt blocked by the validation
// engine; the accompanying report carries the full explanation.
var ErrValidationFailed = errors.New("license validation failed")

type LicenseService struct {
	db                  *gorm.DB
	engine              *validation.Orchestrator
	notificationService *NotificationService
	analyticsService    *AnalyticsService
}

type CreateLicenseRequest struct {
	IPAssetID           uuid.UUID              `json:"ip_asset_id" validate:"required"`
	BrandID             uuid.UUID              `json:"brand_id" validate:"required"`
	Kind                models.LicenseKind     `json:"kind" validate:"required,oneof=exclusive exclusive_territory non_exclusive"`
	StartsAt            time.Time              `json:"starts_at" validate:"required"`
	EndsAt              time.Time              `json:"ends_at" validate:"required"`
	FeeCents            int64                  `json:"fee_cents" validate:"min=0"`
	RevenueShareBps     int                    `json:"revenue_share_bps" validate:"min=0,max=10000"`
	MediaTypes          []string               `json:"media_types"`
	Placements          []string               `json:"placements"`
	Territories         []string               `json:"territories" validate:"omitempty,dive,territory"`
	ExclusivityCategory string                 `json:"exclusivity_category,omitempty"`
	RequiresAttribution bool                   `json:"requires_attribution,omitempty"`
	AttributionFormat   string                 `json:"attribution_format,omitempty"`
	BlockedCompetitors  []uuid.UUID            `json:"blocked_competitors,omitempty"`
	Metadata            map[string]interface{} `json:"metadata,omitempty"`
}

type RejectLicenseRequest struct {
	Reason  string `json:"reason" validate:"required"`
	Message string `json:"message,omitempty"`
}

type RevokeLicenseRequest struct {
	Reason  string `json:"reason" validate:"required"`
	Message string `json:"message,omitempty"`
}

type LicenseSearchParams struct {
	utils.PaginationParams
	IPAssetID *uuid.UUID            `json:"ip_asset_id,omitempty"`
	BrandID   *uuid.UUID            `json:"brand_id,omitempty"`
	CreatorID *uuid.UUID            `json:"creator_id,omitempty"`
	Status    *models.LicenseStatus `json:"status,omitempty"`
	Kind      *models.LicenseKind   `json:"kind,omitempty"`
}

func NewLicenseService(db *gorm.DB, notificationService *NotificationService, analyticsService *AnalyticsService) *LicenseService {
	return &LicenseService{
		db:                  db,
		engine:              validation.NewOrchestrator(),
		notificationService: notificationService,
		analyticsService:    analyticsService,
	}
}

// ValidateLicense is the advisory pre-check surface: it runs the full engine
// against current state and returns the report without creating anything.
func (s *LicenseService) ValidateLicense(req *CreateLicenseRequest) (*validation.ValidationReport, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	candidate := s.candidateFromRequest(req)
	ctx, err := s.assembleContext(s.db, req.IPAssetID, req.BrandID)
	if err != nil {
		return nil, err
	}
	return s.engine.Validate(candidate, ctx)
}

// CreateLicense validates the candidate and, on a passing report, creates the
// license in status pending_approval. The engine's report is advisory: two
// concurrent validations can both pass against the same snapshot, so the
// creation step serializes per asset with a postgres advisory lock and
// re-asserts validation under it.
func (s *LicenseService) CreateLicense(requesterID uuid.UUID, req *CreateLicenseRequest) (*models.License, *validation.ValidationReport, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}

	var brand models.Brand
	if err := s.db.First(&brand, "id = ?", req.BrandID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("brand not found")
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}
	if brand.OwnerID != requesterID {
		var requester models.User
		if err := s.db.First(&requester, "id = ?", requesterID).Error; err != nil || requester.UserType != models.UserTypeAdmin {
			return nil, nil, errors.New("unauthorized to create licenses for this brand")
		}
	}

	candidate := s.candidateFromRequest(req)

	// Optimistic pass outside the lock; a failing candidate never contends
	// for the per-asset lock.
	report, err := s.ValidateLicenseCandidate(candidate, req.IPAssetID, req.BrandID)
	if err != nil {
		return nil, nil, err
	}
	if !report.OverallPassed {
		if s.analyticsService != nil {
			go s.analyticsService.Track("license.validation_failed", &requesterID, "ip_asset", &req.IPAssetID, map[string]interface{}{
				"errors": report.Errors(),
			})
		}
		return nil, report, ErrValidationFailed
	}

	var license *models.License
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?::text))", req.IPAssetID.String()).Error; err != nil {
			return fmt.Errorf("failed to acquire asset lock: %w", err)
		}

		// Re-validate under the lock: state may have moved between the
		// optimistic pass and lock acquisition.
		locked, err := s.assembleContext(tx, req.IPAssetID, req.BrandID)
		if err != nil {
			return err
		}
		lockedReport, err := s.engine.Validate(candidate, locked)
		if err != nil {
			return err
		}
		report = lockedReport
		if !lockedReport.OverallPassed {
			return ErrValidationFailed
		}

		license = s.buildLicense(req, lockedReport)
		return tx.Create(license).Error
	})
	if txErr != nil {
		if errors.Is(txErr, ErrValidationFailed) {
			return nil, report, txErr
		}
		return nil, nil, txErr
	}

	s.db.Preload("IPAsset").Preload("Brand").First(license, "id = ?", license.ID)

	go s.notificationService.SendLicenseSubmittedNotifications(license)
	if s.analyticsService != nil {
		go s.analyticsService.Track("license.validation_passed", &requesterID, "ip_asset", &req.IPAssetID, nil)
		go s.analyticsService.Track("license.created", &requesterID, "license", &license.ID, nil)
	}

	return license, report, nil
}

// ValidateLicenseCandidate runs the engine for an already-built candidate.
func (s *LicenseService) ValidateLicenseCandidate(candidate *validation.LicenseCandidate, assetID, brandID uuid.UUID) (*validation.ValidationReport, error) {
	ctx, err := s.assembleContext(s.db, assetID, brandID)
	if err != nil {
		return nil, err
	}
	return s.engine.Validate(candidate, ctx)
}

func (s *LicenseService) ApproveLicense(licenseID, approverID uuid.UUID) (*models.License, error) {
	var license models.License
	if err := s.db.Preload("IPAsset").Preload("Brand").First(&license, "id = ?", licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.authorizeAssetAction(&license, approverID, "approve"); err != nil {
		return nil, err
	}

	if license.Status != models.LicenseStatusPendingApproval {
		return nil, errors.New("license is not pending approval")
	}

	now := time.Now()
	license.Status = models.LicenseStatusActive
	license.ApprovedAt = &now
	license.ApprovedBy = &approverID

	if err := s.db.Save(&license).Error; err != nil {
		return nil, fmt.Errorf("failed to update license: %w", err)
	}

	go s.notificationService.SendLicenseApprovedNotification(&license)

	return &license, nil
}

func (s *LicenseService) RejectLicense(licenseID, rejecterID uuid.UUID, req *RejectLicenseRequest) (*models.License, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var license models.License
	if err := s.db.Preload("IPAsset").Preload("Brand").First(&license, "id = ?", licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.authorizeAssetAction(&license, rejecterID, "reject"); err != nil {
		return nil, err
	}

	if license.Status != models.LicenseStatusPendingApproval {
		return nil, errors.New("license is not pending approval")
	}

	license.Status = models.LicenseStatusRejected
	license.RejectionReason = req.Reason
	if license.Metadata == nil {
		license.Metadata = make(models.JSONB)
	}
	license.Metadata["rejection_message"] = req.Message
	license.Metadata["rejected_at"] = time.Now()
	license.Metadata["rejected_by"] = rejecterID

	if err := s.db.Save(&license).Error; err != nil {
		return nil, fmt.Errorf("failed to update license: %w", err)
	}

	go s.notificationService.SendLicenseRejectedNotification(&license)

	return &license, nil
}

func (s *LicenseService) RevokeLicense(licenseID, revokerID uuid.UUID, req *RevokeLicenseRequest) (*models.License, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var license models.License
	if err := s.db.Preload("IPAsset").Preload("Brand").First(&license, "id = ?", licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.authorizeAssetAction(&license, revokerID, "revoke"); err != nil {
		return nil, err
	}

	if license.Status != models.LicenseStatusActive {
		return nil, errors.New("can only revoke active licenses")
	}

	license.Status = models.LicenseStatusRevoked
	if license.Metadata == nil {
		license.Metadata = make(models.JSONB)
	}
	license.Metadata["revocation_reason"] = req.Reason
	license.Metadata["revocation_message"] = req.Message
	license.Metadata["revoked_at"] = time.Now()
	license.Metadata["revoked_by"] = revokerID

	if err := s.db.Save(&license).Error; err != nil {
		return nil, fmt.Errorf("failed to update license: %w", err)
	}

	go s.notificationService.SendLicenseRevokedNotification(&license)

	return &license, nil
}

// ExpireLicenses transitions active licenses whose end date has passed. Run
// periodically by the caller.
func (s *LicenseService) ExpireLicenses() (int64, error) {
	res := s.db.Model(&models.License{}).
		Where("status = ? AND ends_at <= ?", models.LicenseStatusActive, time.Now()).
		Update("status", models.LicenseStatusExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to expire licenses: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *LicenseService) GetLicense(id, userID uuid.UUID) (*models.License, error) {
	var license models.License
	if err := s.db.Preload("IPAsset").Preload("IPAsset.Creator").Preload("Brand").
		First(&license, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if license.IPAsset.CreatorID != userID && license.Brand.OwnerID != userID {
		var user models.User
		if err := s.db.First(&user, "id = ?", userID).Error; err != nil || user.UserType != models.UserTypeAdmin {
			return nil, errors.New("unauthorized to view license")
		}
	}

	return &license, nil
}

func (s *LicenseService) SearchLicenses(params LicenseSearchParams, userID uuid.UUID) ([]models.License, int64, error) {
	query := s.db.Model(&models.License{}).
		Preload("IPAsset").Preload("IPAsset.Creator").Preload("Brand")

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, 0, errors.New("user not found")
	}

	if user.UserType != models.UserTypeAdmin {
		query = query.Where(
			"brand_id IN (SELECT id FROM brands WHERE owner_id = ?) OR ip_asset_id IN (SELECT id FROM ip_assets WHERE creator_id = ?)",
			userID, userID)
	}

	if params.IPAssetID != nil {
		query = query.Where("ip_asset_id = ?", *params.IPAssetID)
	}
	if params.BrandID != nil {
		query = query.Where("brand_id = ?", *params.BrandID)
	}
	if params.CreatorID != nil {
		query = query.Where("ip_asset_id IN (SELECT id FROM ip_assets WHERE creator_id = ?)", *params.CreatorID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count licenses: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "starts_at", "ends_at", "fee_cents", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var licenses []models.License
	if err := query.Find(&licenses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch licenses: %w", err)
	}

	return licenses, total, nil
}

// CommittedBudget returns the sum of fee cents across a brand's active and
// pending licenses — the figure the budget check evaluates against.
func (s *LicenseService) CommittedBudget(tx *gorm.DB, brandID uuid.UUID) (int64, error) {
	var committed int64
	err := tx.Model(&models.License{}).
		Where("brand_id = ? AND status IN ?", brandID,
			[]models.LicenseStatus{models.LicenseStatusActive, models.LicenseStatusPendingApproval}).
		Select("COALESCE(SUM(fee_cents), 0)").
		Scan(&committed).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute committed budget: %w", err)
	}
	return committed, nil
}

// Context assembly

// assembleContext pre-fetches everything the engine reads into an immutable
// snapshot. The engine itself never queries a store.
func (s *LicenseService) assembleContext(tx *gorm.DB, assetID, brandID uuid.UUID) (*validation.Context, error) {
	// Unscoped so a soft-deleted asset still surfaces with its deletion
	// marker instead of failing context assembly.
	var asset models.IPAsset
	if err := tx.Unscoped().Preload("Ownerships").First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("IP asset not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var brand models.Brand
	if err := tx.First(&brand, "id = ?", brandID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("brand not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	committed, err := s.CommittedBudget(tx, brandID)
	if err != nil {
		return nil, err
	}

	var existing []models.License
	if err := tx.Preload("Brand").
		Where("ip_asset_id = ? AND status IN ?", assetID,
			[]models.LicenseStatus{models.LicenseStatusActive, models.LicenseStatusPendingApproval}).
		Order("starts_at").
		Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch existing licenses: %w", err)
	}

	ownerships, err := s.ownershipSnapshots(tx, asset.Ownerships)
	if err != nil {
		return nil, err
	}

	ctx := &validation.Context{
		Now: time.Now().UTC(),
		Asset: &validation.AssetSnapshot{
			ID:         asset.ID,
			Status:     string(asset.Status),
			Deleted:    asset.DeletedAt.Valid,
			Ownerships: ownerships,
		},
		Brand: &validation.BrandSnapshot{
			ID:                brand.ID,
			Name:              brand.Name,
			Verified:          brand.Verified,
			CommittedFeeCents: committed,
		},
	}
	for i := range existing {
		ctx.Existing = append(ctx.Existing, existingSnapshot(&existing[i]))
	}
	return ctx, nil
}

// ownershipSnapshots resolves creator account state for every ownership
// record, including soft-deleted accounts.
func (s *LicenseService) ownershipSnapshots(tx *gorm.DB, records []models.OwnershipRecord) ([]validation.OwnershipRecord, error) {
	creatorIDs := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		creatorIDs = append(creatorIDs, rec.CreatorID)
	}

	creators := make(map[uuid.UUID]models.User, len(creatorIDs))
	if len(creatorIDs) > 0 {
		var users []models.User
		if err := tx.Unscoped().Where("id IN ?", creatorIDs).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch ownership creators: %w", err)
		}
		for _, u := range users {
			creators[u.ID] = u
		}
	}

	out := make([]validation.OwnershipRecord, 0, len(records))
	for _, rec := range records {
		creator, ok := creators[rec.CreatorID]
		snapshot := validation.OwnershipRecord{
			CreatorID:         rec.CreatorID,
			ShareBps:          rec.ShareBps,
			Kind:              validation.OwnershipKind(rec.Kind),
			Disputed:          rec.Disputed,
			ContractReference: rec.ContractReference,
			LegalDocumentURL:  rec.LegalDocumentURL,
		}
		if ok {
			snapshot.CreatorName = creator.DisplayName
			if snapshot.CreatorName == "" {
				snapshot.CreatorName = creator.Username
			}
			snapshot.CreatorDeleted = creator.DeletedAt.Valid
			snapshot.CreatorActive = creator.Status == models.UserStatusActive
		} else {
			// Missing account counts as deleted.
			snapshot.CreatorName = rec.CreatorID.String()
			snapshot.CreatorDeleted = true
		}
		out = append(out, snapshot)
	}
	return out, nil
}

func (s *LicenseService) candidateFromRequest(req *CreateLicenseRequest) *validation.LicenseCandidate {
	return &validation.LicenseCandidate{
		AssetID:            req.IPAssetID,
		BrandID:            req.BrandID,
		Kind:               validation.LicenseKind(req.Kind),
		StartsAt:           req.StartsAt,
		EndsAt:             req.EndsAt,
		FeeCents:           req.FeeCents,
		RevenueShareBps:    req.RevenueShareBps,
		Scope:              scopeSnapshot(req.MediaTypes, req.Placements, req.Territories, req.ExclusivityCategory, req.RequiresAttribution, req.AttributionFormat),
		BlockedCompetitors: req.BlockedCompetitors,
		Metadata:           req.Metadata,
	}
}

func existingSnapshot(lic *models.License) validation.ExistingLicense {
	snap := validation.ExistingLicense{
		ID:        lic.ID,
		BrandID:   lic.BrandID,
		BrandName: lic.Brand.Name,
		Kind:      validation.LicenseKind(lic.Kind),
		StartsAt:  lic.StartsAt,
		EndsAt:    lic.EndsAt,
		Scope:     scopeSnapshot(lic.MediaTypes, lic.Placements, lic.Territories, lic.ExclusivityCategory, lic.RequiresAttribution, lic.AttributionFormat),
	}
	for _, raw := range lic.BlockedCompetitors {
		if id, err := uuid.Parse(raw); err == nil {
			snap.BlockedCompetitors = append(snap.BlockedCompetitors, id)
		}
	}
	return snap
}

func scopeSnapshot(media, placements, territories []string, category string, requiresAttribution bool, attributionFormat string) validation.UsageScope {
	scope := validation.UsageScope{
		MediaTypes:          media,
		Placements:          placements,
		ExclusivityCategory: category,
		RequiresAttribution: requiresAttribution,
		AttributionFormat:   attributionFormat,
	}
	for _, t := range territories {
		scope.Territories = append(scope.Territories, validation.Territory(t))
	}
	return scope
}

func (s *LicenseService) buildLicense(req *CreateLicenseRequest, report *validation.ValidationReport) *models.License {
	blocked := make([]string, 0, len(req.BlockedCompetitors))
	for _, id := range req.BlockedCompetitors {
		blocked = append(blocked, id.String())
	}

	license := &models.License{
		IPAssetID:           req.IPAssetID,
		BrandID:             req.BrandID,
		Kind:                req.Kind,
		StartsAt:            req.StartsAt,
		EndsAt:              req.EndsAt,
		FeeCents:            req.FeeCents,
		RevenueShareBps:     req.RevenueShareBps,
		MediaTypes:          req.MediaTypes,
		Placements:          req.Placements,
		Territories:         req.Territories,
		ExclusivityCategory: req.ExclusivityCategory,
		RequiresAttribution: req.RequiresAttribution,
		AttributionFormat:   req.AttributionFormat,
		BlockedCompetitors:  blocked,
		Status:              models.LicenseStatusPendingApproval,
		Metadata:            models.JSONB(req.Metadata),
	}
	license.ValidationReport = reportJSONB(report)
	return license
}

func reportJSONB(report *validation.ValidationReport) models.JSONB {
	checks := make(map[string]interface{}, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = res
	}
	return models.JSONB{
		"overall_passed": report.OverallPassed,
		"checks":         checks,
	}
}

func (s *LicenseService) authorizeAssetAction(license *models.License, userID uuid.UUID, action string) error {
	if license.IPAsset.CreatorID == userID {
		return nil
	}
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("unauthorized to %s license", action)
	}
	if user.UserType != models.UserTypeAdmin {
		return fmt.Errorf("unauthorized to %s license", action)
	}
	return nil
}
