// internal/validation/budget_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetCheckZeroFeeSkips(t *testing.T) {
	cand := testCandidate()
	cand.FeeCents = 0

	res := BudgetCheck{}.Evaluate(cand, testContext())

	assert.True(t, res.Passed())
	assert.Contains(t, res.Warnings[0], "budget validation skipped")
	assert.Equal(t, true, res.Details["skipped"])
}

func TestBudgetCheckUnverifiedCeilingBoundary(t *testing.T) {
	cases := []struct {
		name      string
		committed int64
		fee       int64
		wantPass  bool
	}{
		{"under ceiling", 800_000, 150_000, true},
		{"exactly at ceiling", 800_000, 200_000, true},
		{"one cent over", 800_000, 200_001, false},
		{"over ceiling", 800_000, 250_000, false},
		{"fee alone over ceiling", 0, 1_000_001, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cand := testCandidate()
			cand.FeeCents = tc.fee
			ctx := testContext()
			ctx.Brand.Verified = false
			ctx.Brand.CommittedFeeCents = tc.committed

			res := BudgetCheck{}.Evaluate(cand, ctx)
			assert.Equal(t, tc.wantPass, res.Passed())
		})
	}
}

func TestBudgetCheckUnverifiedErrorNamesAmounts(t *testing.T) {
	cand := testCandidate()
	cand.FeeCents = 250_000 // $2,500
	ctx := testContext()
	ctx.Brand.Verified = false
	ctx.Brand.CommittedFeeCents = 800_000 // $8,000

	res := BudgetCheck{}.Evaluate(cand, ctx)

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors[0], "$8000.00")
	assert.Contains(t, res.Errors[0], "$2500.00")
	assert.Contains(t, res.Errors[0], "$10000.00")
}

func TestBudgetCheckVerifiedHasNoCeiling(t *testing.T) {
	cand := testCandidate()
	cand.FeeCents = 5_000_000 // $50,000, far over the unverified ceiling
	ctx := testContext()
	ctx.Brand.CommittedFeeCents = 20_000_000

	res := BudgetCheck{}.Evaluate(cand, ctx)

	assert.True(t, res.Passed())
	assert.Empty(t, res.Warnings)
}

func TestBudgetCheckVerifiedHighFeeWarns(t *testing.T) {
	cand := testCandidate()
	cand.FeeCents = 15_000_000 // $150,000

	res := BudgetCheck{}.Evaluate(cand, testContext())

	assert.True(t, res.Passed())
	if assert.Len(t, res.Warnings, 1) {
		assert.Contains(t, res.Warnings[0], "additional approval")
	}
}
