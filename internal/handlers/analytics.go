// internal/handlers/analytics.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brandcraft/licensing-backend/internal/services"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// POST /analytics/events
func (h *AnalyticsHandler) IngestEvent(c *gin.Context) {
	actorID, ok := requesterID(c)
	if !ok {
		return
	}

	var req services.IngestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	accepted, err := h.analyticsService.IngestEvents(actorID, []services.IngestEventRequest{req})
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"accepted": accepted,
	})
}

// POST /analytics/events/batch
func (h *AnalyticsHandler) IngestEvents(c *gin.Context) {
	actorID, ok := requesterID(c)
	if !ok {
		return
	}

	var req struct {
		Events []services.IngestEventRequest `json:"events" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	accepted, err := h.analyticsService.IngestEvents(actorID, req.Events)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"accepted": accepted,
	})
}

// GET /admin/analytics/metrics
func (h *AnalyticsHandler) GetMetricSeries(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		utils.BadRequestResponse(c, "Metric name is required", nil)
		return
	}

	from, to, err := parseWindow(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	points, err := h.analyticsService.MetricSeries(name, from, to)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"metric": name,
		"points": points,
	})
}

// GET /admin/analytics/validation-outcomes
func (h *AnalyticsHandler) GetValidationOutcomes(c *gin.Context) {
	from, to, err := parseWindow(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	outcomes, err := h.analyticsService.ValidationOutcomes(from, to)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"from":     from,
		"to":       to,
		"outcomes": outcomes,
	})
}

// parseWindow reads from/to query params as RFC3339, defaulting to the
// trailing 30 days.
func parseWindow(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}
