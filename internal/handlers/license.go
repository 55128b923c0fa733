// internal/handlers/license.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/services"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
}

func NewLicenseHandler(licenseService *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
	}
}

// POST /licenses/validate
//
// Dry run: evaluates the candidate against every check without creating
// anything. The report is returned whether or not it passes.
func (h *LicenseHandler) ValidateLicense(c *gin.Context) {
	if _, ok := requesterID(c); !ok {
		return
	}

	var req services.CreateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	report, err := h.licenseService.ValidateLicense(&req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "resource")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"report": report,
	})
}

// POST /licenses
func (h *LicenseHandler) CreateLicense(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	var req services.CreateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	license, report, err := h.licenseService.CreateLicense(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrValidationFailed) {
			utils.UnprocessableResponse(c, "License validation failed", gin.H{
				"report": report,
			})
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "resource")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"license": license,
		"report":  report,
	})
}

// GET /licenses
func (h *LicenseHandler) ListLicenses(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	searchParams := services.LicenseSearchParams{
		PaginationParams: params,
	}

	if ipAssetIDStr := c.Query("ip_asset_id"); ipAssetIDStr != "" {
		if ipAssetID, err := uuid.Parse(ipAssetIDStr); err == nil {
			searchParams.IPAssetID = &ipAssetID
		}
	}
	if brandIDStr := c.Query("brand_id"); brandIDStr != "" {
		if brandID, err := uuid.Parse(brandIDStr); err == nil {
			searchParams.BrandID = &brandID
		}
	}
	if status := c.Query("status"); status != "" {
		licStatus := models.LicenseStatus(status)
		searchParams.Status = &licStatus
	}
	if kind := c.Query("kind"); kind != "" {
		licKind := models.LicenseKind(kind)
		searchParams.Kind = &licKind
	}

	licenses, total, err := h.licenseService.SearchLicenses(searchParams, userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(licenses, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /licenses/:id
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid license ID", nil)
		return
	}

	userID, ok := requesterID(c)
	if !ok {
		return
	}

	license, err := h.licenseService.GetLicense(id, userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "license")
			return
		}
		if strings.Contains(err.Error(), "unauthorized") || strings.Contains(err.Error(), "permissions") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"license": license,
	})
}

// PUT /licenses/:id/approve
func (h *LicenseHandler) ApproveLicense(c *gin.Context) {
	licenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid license ID", nil)
		return
	}

	approverID, ok := requesterID(c)
	if !ok {
		return
	}

	license, err := h.licenseService.ApproveLicense(licenseID, approverID)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "license")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"license": license,
	})
}

// PUT /licenses/:id/reject
func (h *LicenseHandler) RejectLicense(c *gin.Context) {
	licenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid license ID", nil)
		return
	}

	rejecterID, ok := requesterID(c)
	if !ok {
		return
	}

	var req services.RejectLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	license, err := h.licenseService.RejectLicense(licenseID, rejecterID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "license")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"license": license,
	})
}

// PUT /licenses/:id/revoke
func (h *LicenseHandler) RevokeLicense(c *gin.Context) {
	licenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid license ID", nil)
		return
	}

	revokerID, ok := requesterID(c)
	if !ok {
		return
	}

	var req services.RevokeLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	license, err := h.licenseService.RevokeLicense(licenseID, revokerID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "license")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"license": license,
	})
}

// requesterID pulls the authenticated user out of the gin context.
// Writes the error response itself so call sites stay flat.
func requesterID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}
