// internal/handlers/ip_asset.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/services"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type AssetHandler struct {
	assetService   *services.AssetService
	storageService *services.StorageService
}

func NewAssetHandler(assetService *services.AssetService, storageService *services.StorageService) *AssetHandler {
	return &AssetHandler{
		assetService:   assetService,
		storageService: storageService,
	}
}

// POST /ip-assets
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	creatorID, ok := requesterID(c)
	if !ok {
		return
	}

	var req services.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	asset, err := h.assetService.CreateAsset(creatorID, &req, nil)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"asset": asset,
	})
}

// POST /ip-assets/:id/files
func (h *AssetHandler) UploadAssetFile(c *gin.Context) {
	creatorID, ok := requesterID(c)
	if !ok {
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	// Ownership check before touching storage
	asset, err := h.assetService.GetAsset(assetID, &creatorID)
	if err != nil {
		utils.NotFoundResponse(c, "asset")
		return
	}
	if asset.CreatorID != creatorID {
		utils.ForbiddenResponse(c, "unauthorized to upload files for this asset")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", nil)
		return
	}
	defer file.Close()

	stored, err := h.storageService.UploadFile(file, header, h.storageService.GetDefaultUploadOptions("asset_files"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"file": stored,
	})
}

// GET /ip-assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	var userID *uuid.UUID
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			userID = &parsed
		}
	}

	asset, err := h.assetService.GetAsset(id, userID)
	if err != nil {
		utils.NotFoundResponse(c, "asset")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset": asset,
	})
}

// PUT /ip-assets/:id
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	creatorID, ok := requesterID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	var req services.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	asset, err := h.assetService.UpdateAsset(id, creatorID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "asset")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset": asset,
	})
}

// DELETE /ip-assets/:id
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	creatorID, ok := requesterID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	if err := h.assetService.DeleteAsset(id, creatorID); err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "asset")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Asset deleted",
	})
}

// PUT /ip-assets/:id/ownership
func (h *AssetHandler) SetOwnership(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	var req struct {
		Records []services.OwnershipRecordRequest `json:"records" validate:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	asset, err := h.assetService.SetOwnership(assetID, requester, req.Records)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "asset")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset": asset,
	})
}

// POST /ip-assets/:id/publish
func (h *AssetHandler) PublishAsset(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	asset, err := h.assetService.PublishAsset(assetID, requester)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "asset")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset": asset,
	})
}

// PUT /ip-assets/:id/ownership/:record_id/dispute
func (h *AssetHandler) FlagDispute(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}
	recordID, err := uuid.Parse(c.Param("record_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ownership record ID", nil)
		return
	}

	var req struct {
		Disputed bool `json:"disputed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	record, err := h.assetService.FlagDispute(assetID, recordID, requester, req.Disputed)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "ownership record")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"record": record,
	})
}

// GET /ip-assets
func (h *AssetHandler) SearchAssets(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := &services.AssetSearchParams{
		PaginationParams: params,
		Category:         params.Category,
		Search:           params.Search,
	}

	if creatorIDStr := c.Query("creator_id"); creatorIDStr != "" {
		if creatorID, err := uuid.Parse(creatorIDStr); err == nil {
			searchParams.CreatorID = &creatorID
		}
	}
	if status := c.Query("status"); status != "" {
		assetStatus := models.AssetStatus(status)
		searchParams.Status = &assetStatus
	}
	if tags := c.Query("tags"); tags != "" {
		searchParams.Tags = strings.Split(tags, ",")
	}

	assets, total, err := h.assetService.SearchAssets(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(assets, total, params)
	utils.PaginatedResponse(c, result)
}
