// internal/handlers/handlers_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func TestRequesterIDMissingAuth(t *testing.T) {
	c, w := testContext(t)

	_, ok := requesterID(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequesterIDMalformedUserID(t *testing.T) {
	c, w := testContext(t)
	c.Set("user_id", "not-a-uuid")

	_, ok := requesterID(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequesterIDValid(t *testing.T) {
	c, w := testContext(t)
	want := uuid.New()
	c.Set("user_id", want.String())

	got, ok := requesterID(c)

	assert.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetLicenseRejectsBadID(t *testing.T) {
	c, w := testContext(t)
	c.Set("user_id", uuid.New().String())
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h := NewLicenseHandler(nil)
	h.GetLicense(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
}

func TestGetPayoutRequiresAuth(t *testing.T) {
	c, w := testContext(t)

	h := NewPayoutHandler(nil)
	h.GetPayout(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMarkReadRejectsBadID(t *testing.T) {
	c, w := testContext(t)
	c.Set("user_id", uuid.New().String())
	c.Params = gin.Params{{Key: "id", Value: "garbage"}}

	h := NewNotificationHandler(nil)
	h.MarkRead(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
