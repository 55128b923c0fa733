// internal/handlers/brand.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandcraft/licensing-backend/internal/services"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type BrandHandler struct {
	brandService *services.BrandService
}

func NewBrandHandler(brandService *services.BrandService) *BrandHandler {
	return &BrandHandler{
		brandService: brandService,
	}
}

// POST /brands
func (h *BrandHandler) CreateBrand(c *gin.Context) {
	ownerID, ok := requesterID(c)
	if !ok {
		return
	}

	var req services.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	brand, err := h.brandService.CreateBrand(ownerID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "already taken") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"brand": brand,
	})
}

// GET /brands/:id
func (h *BrandHandler) GetBrand(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid brand ID", nil)
		return
	}

	brand, err := h.brandService.GetBrand(id)
	if err != nil {
		utils.NotFoundResponse(c, "brand")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"brand": brand,
	})
}

// PUT /brands/:id
func (h *BrandHandler) UpdateBrand(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid brand ID", nil)
		return
	}

	var req services.UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	brand, err := h.brandService.UpdateBrand(id, requester, &req)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "brand")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"brand": brand,
	})
}

// GET /brands
func (h *BrandHandler) ListBrands(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var ownerID *uuid.UUID
	if ownerIDStr := c.Query("owner_id"); ownerIDStr != "" {
		if parsed, err := uuid.Parse(ownerIDStr); err == nil {
			ownerID = &parsed
		}
	}

	brands, total, err := h.brandService.ListBrands(ownerID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(brands, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /brands/:id/budget
func (h *BrandHandler) GetCommittedBudget(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid brand ID", nil)
		return
	}

	committed, err := h.brandService.CommittedBudget(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"brand_id":        id,
		"committed_cents": committed,
	})
}

// PUT /admin/brands/:id/verify
func (h *BrandHandler) VerifyBrand(c *gin.Context) {
	adminID, ok := requesterID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid brand ID", nil)
		return
	}

	brand, err := h.brandService.VerifyBrand(id, adminID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "brand")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"brand": brand,
	})
}
