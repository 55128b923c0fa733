// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AdminDashboardStats struct {
	TotalUsers         int64 `json:"total_users"`
	ActiveUsers        int64 `json:"active_users"`
	NewUsersThisMonth  int64 `json:"new_users_this_month"`
	TotalBrands        int64 `json:"total_brands"`
	VerifiedBrands     int64 `json:"verified_brands"`
	TotalAssets        int64 `json:"total_assets"`
	AssetsInReview     int64 `json:"assets_in_review"`
	ActiveLicenses     int64 `json:"active_licenses"`
	PendingLicenses    int64 `json:"pending_licenses"`
	CommittedFeeCents  int64 `json:"committed_fee_cents"`
	PendingPayoutCents int64 `json:"pending_payout_cents"`
	DisputedOwnerships int64 `json:"disputed_ownerships"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	UserType      *models.UserType   `json:"user_type,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	Search        string             `json:"search,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

type AdminLicenseFilter struct {
	utils.PaginationParams
	BrandID   *uuid.UUID            `json:"brand_id,omitempty"`
	IPAssetID *uuid.UUID            `json:"ip_asset_id,omitempty"`
	Status    *models.LicenseStatus `json:"status,omitempty"`
	Kind      *models.LicenseKind   `json:"kind,omitempty"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	s.db.Model(&models.Brand{}).Count(&stats.TotalBrands)
	s.db.Model(&models.Brand{}).Where("verified = ?", true).Count(&stats.VerifiedBrands)

	s.db.Model(&models.IPAsset{}).
		Where("status IN ?", []models.AssetStatus{models.AssetStatusPublished, models.AssetStatusApproved}).
		Count(&stats.TotalAssets)
	s.db.Model(&models.IPAsset{}).Where("status = ?", models.AssetStatusInReview).Count(&stats.AssetsInReview)

	s.db.Model(&models.License{}).Where("status = ?", models.LicenseStatusActive).Count(&stats.ActiveLicenses)
	s.db.Model(&models.License{}).Where("status = ?", models.LicenseStatusPendingApproval).Count(&stats.PendingLicenses)

	s.db.Model(&models.License{}).
		Where("status IN ?", []models.LicenseStatus{models.LicenseStatusActive, models.LicenseStatusPendingApproval}).
		Select("COALESCE(SUM(fee_cents), 0)").Scan(&stats.CommittedFeeCents)

	s.db.Model(&models.Payout{}).
		Where("status IN ?", []models.PayoutStatus{models.PayoutStatusPending, models.PayoutStatusInTransit}).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&stats.PendingPayoutCents)

	s.db.Model(&models.OwnershipRecord{}).Where("disputed = ?", true).Count(&stats.DisputedOwnerships)

	return stats, nil
}

// User Management
func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.UserType != nil {
		query = query.Where("user_type = ?", *filter.UserType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "username", "user_type", "status"})
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, total, nil
}

func (s *AdminService) UpdateUserStatus(userID uuid.UUID, status models.UserStatus, adminID uuid.UUID, reason string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	oldStatus := user.Status
	if oldStatus == status {
		return nil
	}

	if err := s.db.Model(&user).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	s.createAuditLog(adminID, "user.status_changed", "user", &userID,
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": status, "reason": reason})

	return nil
}

// Asset Review
func (s *AdminService) GetAssetsInReview(params utils.PaginationParams) ([]models.IPAsset, int64, error) {
	query := s.db.Model(&models.IPAsset{}).
		Preload("Creator").Preload("Ownerships").
		Where("status = ?", models.AssetStatusInReview)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "title"})
	query = utils.ApplyPagination(query, params)

	var assets []models.IPAsset
	if err := query.Find(&assets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch assets: %w", err)
	}
	return assets, total, nil
}

func (s *AdminService) ApproveAsset(assetID, adminID uuid.UUID) error {
	return s.reviewAsset(assetID, adminID, models.AssetStatusApproved, "")
}

func (s *AdminService) SuspendAsset(assetID, adminID uuid.UUID, reason string) error {
	if reason == "" {
		return errors.New("a suspension reason is required")
	}
	return s.reviewAsset(assetID, adminID, models.AssetStatusSuspended, reason)
}

func (s *AdminService) reviewAsset(assetID, adminID uuid.UUID, status models.AssetStatus, reason string) error {
	var asset models.IPAsset
	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("asset not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	oldStatus := asset.Status
	if err := s.db.Model(&asset).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update asset status: %w", err)
	}

	s.createAuditLog(adminID, "asset.reviewed", "ip_asset", &assetID,
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": status, "reason": reason})

	return nil
}

// License Oversight
func (s *AdminService) GetLicenses(filter AdminLicenseFilter) ([]models.License, int64, error) {
	query := s.db.Model(&models.License{}).Preload("IPAsset").Preload("Brand")

	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.IPAssetID != nil {
		query = query.Where("ip_asset_id = ?", *filter.IPAssetID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count licenses: %w", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "fee_cents", "status", "starts_at"})
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var licenses []models.License
	if err := query.Find(&licenses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch licenses: %w", err)
	}
	return licenses, total, nil
}

// Audit Trail
func (s *AdminService) GetAuditLogs(params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "action"})
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return logs, total, nil
}

// Helper methods
func (s *AdminService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
	}

	s.db.Create(auditLog)
}
