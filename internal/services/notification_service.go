// internal/services/notification_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/config"
	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

type UpdatePreferencesRequest struct {
	EmailEnabled   *bool `json:"email_enabled,omitempty"`
	InAppEnabled   *bool `json:"in_app_enabled,omitempty"`
	LicenseUpdates *bool `json:"license_updates,omitempty"`
	PayoutUpdates  *bool `json:"payout_updates,omitempty"`
	TaxReminders   *bool `json:"tax_reminders,omitempty"`
	Marketing      *bool `json:"marketing,omitempty"`
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Preferences

// GetPreferences returns the user's notification preferences, creating the
// default row on first access.
func (s *NotificationService) GetPreferences(userID uuid.UUID) (*models.NotificationPreference, error) {
	var prefs models.NotificationPreference
	err := s.db.Where("user_id = ?", userID).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prefs = models.NotificationPreference{
			UserID:         userID,
			EmailEnabled:   true,
			InAppEnabled:   true,
			LicenseUpdates: true,
			PayoutUpdates:  true,
			TaxReminders:   true,
		}
		if err := s.db.Create(&prefs).Error; err != nil {
			return nil, fmt.Errorf("failed to create default preferences: %w", err)
		}
		return &prefs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &prefs, nil
}

func (s *NotificationService) UpdatePreferences(userID uuid.UUID, req *UpdatePreferencesRequest) (*models.NotificationPreference, error) {
	prefs, err := s.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	if req.EmailEnabled != nil {
		prefs.EmailEnabled = *req.EmailEnabled
	}
	if req.InAppEnabled != nil {
		prefs.InAppEnabled = *req.InAppEnabled
	}
	if req.LicenseUpdates != nil {
		prefs.LicenseUpdates = *req.LicenseUpdates
	}
	if req.PayoutUpdates != nil {
		prefs.PayoutUpdates = *req.PayoutUpdates
	}
	if req.TaxReminders != nil {
		prefs.TaxReminders = *req.TaxReminders
	}
	if req.Marketing != nil {
		prefs.Marketing = *req.Marketing
	}

	if err := s.db.Save(prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return prefs, nil
}

func (s *NotificationService) ListNotifications(userID uuid.UUID, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	now := time.Now()
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", &now)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

// License lifecycle notifications

func (s *NotificationService) SendLicenseSubmittedNotifications(license *models.License) {
	var creator models.User
	if err := s.db.First(&creator, "id = ?", license.IPAsset.CreatorID).Error; err != nil {
		logrus.WithError(err).Warn("license submitted notification skipped: creator not found")
		return
	}

	s.notify(&creator, "license_submitted",
		"New license request",
		fmt.Sprintf("%s requested a %s license for your asset '%s'", license.Brand.Name, license.Kind, license.IPAsset.Title),
		models.JSONB{"license_id": license.ID.String()},
		"license_submitted", map[string]interface{}{
			"CreatorName": displayName(&creator),
			"BrandName":   license.Brand.Name,
			"AssetTitle":  license.IPAsset.Title,
			"LicenseURL":  fmt.Sprintf("%s/licenses/%s", s.config.Frontend.BaseURL, license.ID),
		})
}

func (s *NotificationService) SendLicenseApprovedNotification(license *models.License) {
	var owner models.User
	if err := s.db.First(&owner, "id = ?", license.Brand.OwnerID).Error; err != nil {
		logrus.WithError(err).Warn("license approved notification skipped: brand owner not found")
		return
	}

	s.notify(&owner, "license_approved",
		"License approved",
		fmt.Sprintf("Your license for '%s' has been approved and is now active", license.IPAsset.Title),
		models.JSONB{"license_id": license.ID.String()},
		"license_approved", map[string]interface{}{
			"OwnerName":  displayName(&owner),
			"AssetTitle": license.IPAsset.Title,
			"LicenseURL": fmt.Sprintf("%s/licenses/%s", s.config.Frontend.BaseURL, license.ID),
		})
}

func (s *NotificationService) SendLicenseRejectedNotification(license *models.License) {
	var owner models.User
	if err := s.db.First(&owner, "id = ?", license.Brand.OwnerID).Error; err != nil {
		logrus.WithError(err).Warn("license rejected notification skipped: brand owner not found")
		return
	}

	s.notify(&owner, "license_rejected",
		"License rejected",
		fmt.Sprintf("Your license request for '%s' was rejected: %s", license.IPAsset.Title, license.RejectionReason),
		models.JSONB{"license_id": license.ID.String()},
		"license_rejected", map[string]interface{}{
			"OwnerName":  displayName(&owner),
			"AssetTitle": license.IPAsset.Title,
			"Reason":     license.RejectionReason,
		})
}

func (s *NotificationService) SendLicenseRevokedNotification(license *models.License) {
	var owner models.User
	if err := s.db.First(&owner, "id = ?", license.Brand.OwnerID).Error; err != nil {
		logrus.WithError(err).Warn("license revoked notification skipped: brand owner not found")
		return
	}

	s.notify(&owner, "license_revoked",
		"License revoked",
		fmt.Sprintf("Your license for '%s' has been revoked", license.IPAsset.Title),
		models.JSONB{"license_id": license.ID.String()},
		"license_revoked", map[string]interface{}{
			"OwnerName":  displayName(&owner),
			"AssetTitle": license.IPAsset.Title,
			"Reason":     license.Metadata["revocation_reason"],
		})
}

// Payout notifications

func (s *NotificationService) SendPayoutStatusNotification(payout *models.Payout) {
	var creator models.User
	if err := s.db.First(&creator, "id = ?", payout.CreatorID).Error; err != nil {
		logrus.WithError(err).Warn("payout notification skipped: creator not found")
		return
	}

	prefs, err := s.GetPreferences(creator.ID)
	if err != nil || !prefs.PayoutUpdates {
		return
	}

	s.notify(&creator, "payout_status",
		"Payout update",
		fmt.Sprintf("Your payout of %s is now %s", formatAmount(payout.AmountCents), payout.Status),
		models.JSONB{"payout_id": payout.ID.String()},
		"payout_status", map[string]interface{}{
			"CreatorName": displayName(&creator),
			"Amount":      formatAmount(payout.AmountCents),
			"Status":      string(payout.Status),
		})
}

// notify writes the in-app record and sends email, each gated on the user's
// preferences.
func (s *NotificationService) notify(user *models.User, notifType, title, message string, data models.JSONB, templateType string, templateData map[string]interface{}) {
	prefs, err := s.GetPreferences(user.ID)
	if err != nil {
		logrus.WithError(err).Warn("notification preferences unavailable")
		return
	}

	if prefs.InAppEnabled {
		notification := &models.Notification{
			UserID:  user.ID,
			Type:    notifType,
			Title:   title,
			Message: message,
			Data:    data,
		}
		if err := s.db.Create(notification).Error; err != nil {
			logrus.WithError(err).Warn("failed to create in-app notification")
		}
	}

	if prefs.EmailEnabled {
		tmpl := s.getEmailTemplate(templateType)
		body, err := s.renderTemplate(tmpl.Body, templateData)
		if err != nil {
			logrus.WithError(err).Warn("failed to render email template")
			return
		}
		if err := s.sendEmail(user.Email, title, body); err != nil {
			logrus.WithError(err).Warn("failed to send notification email")
		}
	}
}

// Helper methods

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("email delivery skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"license_submitted": {
			Subject: "New License Request",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New license request</h2>
	<p>Hello {{.CreatorName}},</p>
	<p>{{.BrandName}} requested a license for "{{.AssetTitle}}".</p>
	<a href="{{.LicenseURL}}">Review the request</a>
</body>
</html>`,
		},
		"license_approved": {
			Subject: "License Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>License approved</h2>
	<p>Hello {{.OwnerName}},</p>
	<p>Your license for "{{.AssetTitle}}" has been approved and is now active.</p>
	<a href="{{.LicenseURL}}">View license</a>
</body>
</html>`,
		},
		"license_rejected": {
			Subject: "License Rejected",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<p>Hello {{.OwnerName}},</p>
	<p>Your license request for "{{.AssetTitle}}" was rejected.</p>
	<p>Reason: {{.Reason}}</p>
</body>
</html>`,
		},
		"payout_status": {
			Subject: "Payout Update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<p>Hello {{.CreatorName}},</p>
	<p>Your payout of {{.Amount}} is now {{.Status}}.</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}

func displayName(user *models.User) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Username
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
