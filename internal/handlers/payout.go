// internal/handlers/payout.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brandcraft/licensing-backend/internal/services"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

type PayoutHandler struct {
	payoutService *services.PayoutService
}

func NewPayoutHandler(payoutService *services.PayoutService) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
	}
}

// GET /payouts/balance
func (h *PayoutHandler) GetBalance(c *gin.Context) {
	creatorID, ok := requesterID(c)
	if !ok {
		return
	}

	balance, err := h.payoutService.Balance(creatorID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"balance": balance,
	})
}

// POST /payouts
func (h *PayoutHandler) RequestPayout(c *gin.Context) {
	creatorID, ok := requesterID(c)
	if !ok {
		return
	}

	var req services.RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	payout, err := h.payoutService.RequestPayout(creatorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPayoutBelowMinimum),
			errors.Is(err, services.ErrInsufficientBalance),
			errors.Is(err, services.ErrNoConnectedAccount):
			utils.UnprocessableResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"payout": payout,
	})
}

// GET /payouts
func (h *PayoutHandler) ListPayouts(c *gin.Context) {
	creatorID, ok := requesterID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	payouts, total, err := h.payoutService.ListPayouts(creatorID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(payouts, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /payouts/:id/poll
//
// On-demand refresh from Stripe, for creators who do not want to wait for
// the background polling interval.
func (h *PayoutHandler) PollPayout(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid payout ID", nil)
		return
	}

	payout, err := h.payoutService.PollPayout(requester, payoutID)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "payout")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"payout": payout,
	})
}

// GET /payouts/:id
func (h *PayoutHandler) GetPayout(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}

	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid payout ID", nil)
		return
	}

	payout, err := h.payoutService.GetPayout(requester, payoutID)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.NotFoundResponse(c, "payout")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"payout": payout,
	})
}
