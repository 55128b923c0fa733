// internal/handlers/tax.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/services"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type TaxHandler struct {
	taxService *services.TaxService
}

func NewTaxHandler(taxService *services.TaxService) *TaxHandler {
	return &TaxHandler{
		taxService: taxService,
	}
}

// POST /tax-documents
// Multipart form: file plus tax_year and type fields.
func (h *TaxHandler) SubmitDocument(c *gin.Context) {
	creatorID, ok := requesterID(c)
	if !ok {
		return
	}

	taxYear, err := strconv.Atoi(c.PostForm("tax_year"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid tax year", nil)
		return
	}

	req := services.SubmitTaxDocumentRequest{
		TaxYear: taxYear,
		Type:    models.TaxDocumentType(c.PostForm("type")),
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "No file provided", nil)
		return
	}
	defer file.Close()

	document, err := h.taxService.SubmitDocument(creatorID, &req, file, header)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"tax_document": document,
	})
}

// GET /tax-documents
func (h *TaxHandler) ListDocuments(c *gin.Context) {
	creatorID, ok := requesterID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	taxYear := 0
	if yearStr := c.Query("tax_year"); yearStr != "" {
		if parsed, err := strconv.Atoi(yearStr); err == nil {
			taxYear = parsed
		}
	}

	documents, total, err := h.taxService.ListDocuments(creatorID, taxYear, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(documents, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /tax-documents/:id
func (h *TaxHandler) GetDocument(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid document ID", nil)
		return
	}

	document, err := h.taxService.GetDocument(requester, documentID, isAdminRequest(c))
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.NotFoundResponse(c, "tax document")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"tax_document": document,
	})
}

// GET /tax-documents/:id/download
func (h *TaxHandler) DownloadDocument(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid document ID", nil)
		return
	}

	url, err := h.taxService.DownloadURL(requester, documentID, isAdminRequest(c))
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.NotFoundResponse(c, "tax document")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"download_url": url,
	})
}

// PUT /admin/tax-documents/:id/review
func (h *TaxHandler) ReviewDocument(c *gin.Context) {
	reviewerID, ok := requesterID(c)
	if !ok {
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid document ID", nil)
		return
	}

	var req services.ReviewTaxDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	document, err := h.taxService.ReviewDocument(reviewerID, documentID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "tax document")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"tax_document": document,
	})
}

// GET /admin/tax-documents/missing
func (h *TaxHandler) MissingForYear(c *gin.Context) {
	taxYear, err := strconv.Atoi(c.Query("tax_year"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid tax year", nil)
		return
	}

	creatorIDs, err := h.taxService.MissingForYear(taxYear)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"tax_year":    taxYear,
		"creator_ids": creatorIDs,
	})
}

func isAdminRequest(c *gin.Context) bool {
	userType, exists := utils.GetUserTypeFromContext(c)
	return exists && userType == "admin"
}
