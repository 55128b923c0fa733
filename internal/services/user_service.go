// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

type UpdateUserProfileRequest struct {
	Username    string                 `json:"username,omitempty" validate:"omitempty,username"`
	DisplayName string                 `json:"display_name,omitempty" validate:"max=255"`
	ProfileData map[string]interface{} `json:"profile_data,omitempty"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetPublicProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Select("id, username, display_name, user_type, profile_data, created_at").
		First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateUserProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if req.Username != "" && req.Username != user.Username {
		var existingUser models.User
		if err := s.db.Where("username = ? AND id != ?", req.Username, userID).First(&existingUser).Error; err == nil {
			return nil, errors.New("username already taken")
		}
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}

	if req.ProfileData != nil {
		if user.ProfileData == nil {
			user.ProfileData = make(models.JSONB)
		}
		// Merge with existing profile data
		for key, value := range req.ProfileData {
			user.ProfileData[key] = value
		}
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &user, nil
}

// LinkStripeAccount records the creator's connected account for payouts.
func (s *UserService) LinkStripeAccount(userID uuid.UUID, stripeAccountID string) (*models.User, error) {
	if stripeAccountID == "" {
		return nil, errors.New("stripe account id is required")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if user.UserType != models.UserTypeCreator {
		return nil, errors.New("only creators receive payouts")
	}

	if err := s.db.Model(&user).Update("stripe_account_id", stripeAccountID).Error; err != nil {
		return nil, fmt.Errorf("failed to link stripe account: %w", err)
	}
	user.StripeAccountID = stripeAccountID
	return &user, nil
}

func (s *UserService) DeleteAccount(userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if err := user.CheckPassword(password); err != nil {
		return errors.New("invalid password")
	}

	// A creator with live licenses on their assets cannot disappear
	var licenseCount int64
	s.db.Model(&models.License{}).
		Joins("JOIN ownership_records ON ownership_records.ip_asset_id = licenses.ip_asset_id").
		Where("ownership_records.creator_id = ? AND ownership_records.deleted_at IS NULL", userID).
		Where("licenses.status IN ?", []models.LicenseStatus{models.LicenseStatusActive, models.LicenseStatusPendingApproval}).
		Count(&licenseCount)

	if licenseCount > 0 {
		return errors.New("cannot delete account while licenses are active on owned assets")
	}

	if err := s.db.Delete(&user).Error; err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}
