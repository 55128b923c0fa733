// internal/handlers/report.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandcraft/licensing-backend/internal/services"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// POST /reports
func (h *ReportHandler) RequestReport(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	var req services.RequestReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	report, err := h.reportService.RequestReport(requester, &req)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"report": report,
	})
}

// GET /reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	reports, total, err := h.reportService.ListReports(requester, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(reports, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid report ID", nil)
		return
	}

	report, err := h.reportService.GetReport(requester, reportID)
	if err != nil {
		utils.NotFoundResponse(c, "report")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"report": report,
	})
}

// GET /reports/:id/download
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid report ID", nil)
		return
	}

	url, err := h.reportService.DownloadURL(requester, reportID)
	if err != nil {
		if strings.Contains(err.Error(), "not ready") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.NotFoundResponse(c, "report")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"download_url": url,
	})
}
