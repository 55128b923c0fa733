// internal/services/payout_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v74"

	"github.com/brandcraft/licensing-backend/internal/models"
)

func TestPayoutStatusFromStripe(t *testing.T) {
	cases := []struct {
		stripeStatus stripe.PayoutStatus
		want         models.PayoutStatus
	}{
		{stripe.PayoutStatusPaid, models.PayoutStatusPaid},
		{stripe.PayoutStatusInTransit, models.PayoutStatusInTransit},
		{stripe.PayoutStatusFailed, models.PayoutStatusFailed},
		{stripe.PayoutStatusCanceled, models.PayoutStatusCanceled},
		{stripe.PayoutStatusPending, models.PayoutStatusPending},
		{stripe.PayoutStatus("something_new"), models.PayoutStatusPending},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, payoutStatusFromStripe(tc.stripeStatus), "stripe status %s", tc.stripeStatus)
	}
}
