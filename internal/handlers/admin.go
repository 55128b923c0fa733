// internal/handlers/admin.go
package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/services"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	filter := services.AdminUserFilter{
		PaginationParams: utils.GetPaginationParams(c),
		Search:           c.Query("search"),
	}

	if userTypeStr := c.Query("user_type"); userTypeStr != "" {
		userType := models.UserType(userTypeStr)
		filter.UserType = &userType
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.UserStatus(statusStr)
		filter.Status = &status
	}
	if afterStr := c.Query("created_after"); afterStr != "" {
		if parsed, err := time.Parse(time.RFC3339, afterStr); err == nil {
			filter.CreatedAfter = &parsed
		}
	}
	if beforeStr := c.Query("created_before"); beforeStr != "" {
		if parsed, err := time.Parse(time.RFC3339, beforeStr); err == nil {
			filter.CreatedBefore = &parsed
		}
	}

	users, total, err := h.adminService.GetUsers(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(users, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	adminID, ok := requesterID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if err := h.adminService.UpdateUserStatus(userID, models.UserStatus(req.Status), adminID, req.Reason); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "user")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "User status updated",
	})
}

// GET /admin/assets/review
func (h *AdminHandler) GetAssetsInReview(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	assets, total, err := h.adminService.GetAssetsInReview(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(assets, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /admin/assets/:id/approve
func (h *AdminHandler) ApproveAsset(c *gin.Context) {
	adminID, ok := requesterID(c)
	if !ok {
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	if err := h.adminService.ApproveAsset(assetID, adminID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "asset")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Asset approved",
	})
}

// POST /admin/assets/:id/suspend
func (h *AdminHandler) SuspendAsset(c *gin.Context) {
	adminID, ok := requesterID(c)
	if !ok {
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Suspension reason is required", nil)
		return
	}

	if err := h.adminService.SuspendAsset(assetID, adminID, req.Reason); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "asset")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Asset suspended",
	})
}

// GET /admin/licenses
func (h *AdminHandler) GetLicenses(c *gin.Context) {
	filter := services.AdminLicenseFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if brandIDStr := c.Query("brand_id"); brandIDStr != "" {
		if parsed, err := uuid.Parse(brandIDStr); err == nil {
			filter.BrandID = &parsed
		}
	}
	if assetIDStr := c.Query("ip_asset_id"); assetIDStr != "" {
		if parsed, err := uuid.Parse(assetIDStr); err == nil {
			filter.IPAssetID = &parsed
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.LicenseStatus(statusStr)
		filter.Status = &status
	}
	if kindStr := c.Query("kind"); kindStr != "" {
		kind := models.LicenseKind(kindStr)
		filter.Kind = &kind
	}

	licenses, total, err := h.adminService.GetLicenses(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(licenses, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.adminService.GetAuditLogs(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}
