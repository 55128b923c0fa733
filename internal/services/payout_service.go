// internal/services/payout_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	stripepayout "github.com/stripe/stripe-go/v74/payout"
	"gorm.io/gorm"

	"github.com/brandcraft/licensing-backend/internal/config"
	"github.com/brandcraft/licensing-backend/internal/models"
	"github.com/brandcraft/licensing-backend/internal/utils"
)

var (
	ErrPayoutBelowMinimum  = errors.New("payout amount is below the minimum")
	ErrInsufficientBalance = errors.New("payout amount exceeds available balance")
	ErrNoConnectedAccount  = errors.New("creator has no connected Stripe account")
)

type PayoutService struct {
	db                  *gorm.DB
	config              *config.Config
	notificationService *NotificationService
}

type RequestPayoutRequest struct {
	AmountCents int64      `json:"amount_cents" validate:"required,min=1"`
	LicenseID   *uuid.UUID `json:"license_id,omitempty"`
}

type BalanceResponse struct {
	EarnedCents    int64 `json:"earned_cents"`
	PaidOutCents   int64 `json:"paid_out_cents"`
	AvailableCents int64 `json:"available_cents"`
}

func NewPayoutService(db *gorm.DB, config *config.Config, notificationService *NotificationService) *PayoutService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PayoutService{
		db:                  db,
		config:              config,
		notificationService: notificationService,
	}
}

// Balance returns the creator's lifetime earnings from active licenses
// (their ownership share of each upfront fee) and what has already been
// paid out or is in flight.
func (s *PayoutService) Balance(creatorID uuid.UUID) (*BalanceResponse, error) {
	var earned int64
	err := s.db.Model(&models.License{}).
		Select("COALESCE(SUM(licenses.fee_cents * ownership_records.share_bps / 10000), 0)").
		Joins("JOIN ownership_records ON ownership_records.ip_asset_id = licenses.ip_asset_id").
		Where("ownership_records.creator_id = ? AND ownership_records.deleted_at IS NULL", creatorID).
		Where("licenses.status IN ?", []models.LicenseStatus{models.LicenseStatusActive, models.LicenseStatusExpired}).
		Scan(&earned).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute earnings: %w", err)
	}

	var paidOut int64
	err = s.db.Model(&models.Payout{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("creator_id = ? AND status NOT IN ?", creatorID,
			[]models.PayoutStatus{models.PayoutStatusFailed, models.PayoutStatusCanceled}).
		Scan(&paidOut).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute paid out total: %w", err)
	}

	return &BalanceResponse{
		EarnedCents:    earned,
		PaidOutCents:   paidOut,
		AvailableCents: earned - paidOut,
	}, nil
}

// RequestPayout initiates a Stripe payout to the creator's connected
// account and records it for status polling.
func (s *PayoutService) RequestPayout(creatorID uuid.UUID, req *RequestPayoutRequest) (*models.Payout, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	if req.AmountCents < s.config.Payment.MinimumPayoutCents {
		return nil, ErrPayoutBelowMinimum
	}

	var creator models.User
	if err := s.db.First(&creator, "id = ?", creatorID).Error; err != nil {
		return nil, fmt.Errorf("creator not found: %w", err)
	}
	if creator.StripeAccountID == "" {
		return nil, ErrNoConnectedAccount
	}

	balance, err := s.Balance(creatorID)
	if err != nil {
		return nil, err
	}
	if req.AmountCents > balance.AvailableCents {
		return nil, ErrInsufficientBalance
	}

	payout := &models.Payout{
		CreatorID:   creatorID,
		LicenseID:   req.LicenseID,
		AmountCents: req.AmountCents,
		Currency:    "usd",
		Status:      models.PayoutStatusPending,
	}
	if err := s.db.Create(payout).Error; err != nil {
		return nil, fmt.Errorf("failed to create payout: %w", err)
	}

	params := &stripe.PayoutParams{
		Amount:   stripe.Int64(req.AmountCents),
		Currency: stripe.String("usd"),
	}
	params.SetStripeAccount(creator.StripeAccountID)
	params.AddMetadata("payout_id", payout.ID.String())
	params.AddMetadata("creator_id", creatorID.String())

	sp, err := stripepayout.New(params)
	if err != nil {
		now := time.Now()
		s.db.Model(payout).Updates(map[string]interface{}{
			"status":         models.PayoutStatusFailed,
			"failure_reason": err.Error(),
			"settled_at":     &now,
		})
		return nil, fmt.Errorf("failed to initiate stripe payout: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"stripe_payout_id": sp.ID,
		"status":           payoutStatusFromStripe(sp.Status),
		"initiated_at":     &now,
	}
	if err := s.db.Model(payout).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to record stripe payout: %w", err)
	}

	if err := s.db.First(payout, "id = ?", payout.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload payout: %w", err)
	}
	return payout, nil
}

func (s *PayoutService) GetPayout(requesterID uuid.UUID, payoutID uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	if err := s.db.Preload("License").First(&payout, "id = ?", payoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("payout not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if payout.CreatorID != requesterID && !s.isAdmin(requesterID) {
		return nil, errors.New("insufficient permissions")
	}
	return &payout, nil
}

func (s *PayoutService) ListPayouts(creatorID uuid.UUID, params utils.PaginationParams) ([]models.Payout, int64, error) {
	query := s.db.Model(&models.Payout{}).Where("creator_id = ?", creatorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payouts: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "amount_cents", "status"})
	query = utils.ApplyPagination(query, params)

	var payouts []models.Payout
	if err := query.Find(&payouts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payouts: %w", err)
	}
	return payouts, total, nil
}

// PollPendingPayouts refreshes every non-terminal payout against Stripe.
// Called on an interval from the server process.
func (s *PayoutService) PollPendingPayouts() error {
	var pending []models.Payout
	err := s.db.
		Where("status IN ?", []models.PayoutStatus{models.PayoutStatusPending, models.PayoutStatusInTransit}).
		Where("stripe_payout_id <> ''").
		Find(&pending).Error
	if err != nil {
		return fmt.Errorf("failed to fetch pending payouts: %w", err)
	}

	for i := range pending {
		if err := s.refreshPayout(&pending[i]); err != nil {
			logrus.WithError(err).WithField("payout_id", pending[i].ID).Warn("payout status refresh failed")
		}
	}
	return nil
}

func (s *PayoutService) refreshPayout(payout *models.Payout) error {
	var creator models.User
	if err := s.db.First(&creator, "id = ?", payout.CreatorID).Error; err != nil {
		return fmt.Errorf("creator not found: %w", err)
	}

	params := &stripe.PayoutParams{}
	params.SetStripeAccount(creator.StripeAccountID)

	sp, err := stripepayout.Get(payout.StripePayoutID, params)
	if err != nil {
		return fmt.Errorf("stripe payout lookup failed: %w", err)
	}

	now := time.Now()
	newStatus := payoutStatusFromStripe(sp.Status)
	updates := map[string]interface{}{
		"status":         newStatus,
		"last_polled_at": &now,
	}
	if sp.FailureMessage != "" {
		updates["failure_reason"] = sp.FailureMessage
	}

	wasTerminal := payout.Terminal()
	payout.Status = newStatus
	if payout.Terminal() {
		updates["settled_at"] = &now
	}

	if err := s.db.Model(&models.Payout{}).Where("id = ?", payout.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update payout: %w", err)
	}

	if payout.Terminal() && !wasTerminal {
		go s.notificationService.SendPayoutStatusNotification(payout)
	}
	return nil
}

// PollPayout refreshes a single payout from Stripe on demand. The requester
// must own the payout or be an admin.
func (s *PayoutService) PollPayout(requesterID, payoutID uuid.UUID) (*models.Payout, error) {
	payout, err := s.GetPayout(requesterID, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.StripePayoutID == "" {
		return payout, nil
	}
	if err := s.refreshPayout(payout); err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *PayoutService) isAdmin(userID uuid.UUID) bool {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return false
	}
	return user.UserType == models.UserTypeAdmin
}

func payoutStatusFromStripe(status stripe.PayoutStatus) models.PayoutStatus {
	switch status {
	case stripe.PayoutStatusPaid:
		return models.PayoutStatusPaid
	case stripe.PayoutStatusInTransit:
		return models.PayoutStatusInTransit
	case stripe.PayoutStatusFailed:
		return models.PayoutStatusFailed
	case stripe.PayoutStatusCanceled:
		return models.PayoutStatusCanceled
	default:
		return models.PayoutStatusPending
	}
}
