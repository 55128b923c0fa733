// internal/services/notification_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandcraft/licensing-backend/internal/config"
	"github.com/brandcraft/licensing-backend/internal/models"
)

func TestRenderTemplateSubstitutesFields(t *testing.T) {
	s := &NotificationService{config: &config.Config{}}

	tmpl := s.getEmailTemplate("license_approved")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"OwnerName":  "Acme Co",
		"AssetTitle": "Neon Tiger",
		"LicenseURL": "https://example.com/licenses/123",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hello Acme Co")
	assert.Contains(t, body, `"Neon Tiger"`)
	assert.Contains(t, body, "https://example.com/licenses/123")
}

func TestGetEmailTemplateFallsBack(t *testing.T) {
	s := &NotificationService{config: &config.Config{}}

	tmpl := s.getEmailTemplate("no_such_template")
	assert.Equal(t, "Notification", tmpl.Subject)

	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{"Message": "hello"})
	require.NoError(t, err)
	assert.Contains(t, body, "hello")
}

func TestDisplayNamePrefersDisplayName(t *testing.T) {
	user := &models.User{Username: "jdoe", DisplayName: "Jane Doe"}
	assert.Equal(t, "Jane Doe", displayName(user))

	user.DisplayName = ""
	assert.Equal(t, "jdoe", displayName(user))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$12.34", formatAmount(1234))
	assert.Equal(t, "$0.05", formatAmount(5))
	assert.Equal(t, "$2000.00", formatAmount(200000))
}
