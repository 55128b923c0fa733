// internal/validation/orchestrator_test.go
package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiresFullContext(t *testing.T) {
	o := NewOrchestrator()

	_, err := o.Validate(nil, testContext())
	assert.EqualError(t, err, "validation: candidate is required")

	_, err = o.Validate(testCandidate(), nil)
	assert.EqualError(t, err, "validation: context is required")

	ctx := testContext()
	ctx.Asset = nil
	_, err = o.Validate(testCandidate(), ctx)
	assert.EqualError(t, err, "validation: context is missing the asset snapshot")

	ctx = testContext()
	ctx.Brand = nil
	_, err = o.Validate(testCandidate(), ctx)
	assert.EqualError(t, err, "validation: context is missing the brand snapshot")
}

func TestValidateRunsAllSixChecks(t *testing.T) {
	report, err := NewOrchestrator().Validate(testCandidate(), testContext())
	require.NoError(t, err)

	assert.Len(t, report.Checks, 6)
	for _, name := range []string{
		CheckNameIntervalOverlap, CheckNameExclusivity, CheckNameScopeConflict,
		CheckNameBudget, CheckNameOwnership, CheckNameApprovalRequirement,
	} {
		assert.Contains(t, report.Checks, name)
	}
	assert.True(t, report.OverallPassed)
}

func TestValidateExclusiveCandidateAgainstActiveNonExclusive(t *testing.T) {
	// Exclusive Jan 1–Jan 31 against an active non-exclusive Jan 15–Feb 15:
	// interval and exclusivity both error, overall fails.
	cand := testCandidate()
	cand.Kind = KindExclusive
	cand.StartsAt = day(0)
	cand.EndsAt = day(30)

	ex := existing("Acme Co", KindNonExclusive, 14, 45)

	report, err := NewOrchestrator().Validate(cand, testContext(ex))
	require.NoError(t, err)

	assert.False(t, report.OverallPassed)
	assert.False(t, report.Checks[CheckNameIntervalOverlap].Passed())
	assert.False(t, report.Checks[CheckNameExclusivity].Passed())
}

func TestValidateShareSumFailureWithZeroFee(t *testing.T) {
	cand := testCandidate()
	cand.FeeCents = 0
	ctx := testContext()
	ctx.Asset.Ownerships = []OwnershipRecord{
		testOwner("Ana Reyes", 5000, OwnershipPrimary),
		testOwner("Leo Tanaka", 3000, OwnershipSecondary),
	}

	report, err := NewOrchestrator().Validate(cand, ctx)
	require.NoError(t, err)

	assert.False(t, report.OverallPassed)
	assert.False(t, report.Checks[CheckNameOwnership].Passed())
	// Zero fee only warns on the budget check.
	budget := report.Checks[CheckNameBudget]
	assert.True(t, budget.Passed())
	assert.NotEmpty(t, budget.Warnings)
}

func TestValidateApprovableButNotAutoApproved(t *testing.T) {
	// Verified brand, $150,000 fee, no conflicts: passes overall while both
	// budget and approval routing flag admin review.
	cand := testCandidate()
	cand.FeeCents = 15_000_000

	report, err := NewOrchestrator().Validate(cand, testContext())
	require.NoError(t, err)

	assert.True(t, report.OverallPassed)
	assert.NotEmpty(t, report.Checks[CheckNameBudget].Warnings)

	approval := report.Checks[CheckNameApprovalRequirement]
	reasons := approval.Details["reasons"].([]string)
	assert.Contains(t, reasons, ReasonHighValue)
}

func TestValidateInformationalCheckNeverFailsOverall(t *testing.T) {
	// Unverified brand adds an admin approver but must not fail validation.
	cand := testCandidate()
	ctx := testContext()
	ctx.Brand.Verified = false

	report, err := NewOrchestrator().Validate(cand, ctx)
	require.NoError(t, err)

	assert.True(t, report.OverallPassed)
	assert.False(t, report.Checks[CheckNameApprovalRequirement].Blocking)
}

func TestValidateIsIdempotent(t *testing.T) {
	cand := testCandidate()
	cand.Kind = KindExclusive
	cand.FeeCents = 2_500_000
	ctx := testContext(existing("Acme Co", KindNonExclusive, 14, 45))

	o := NewOrchestrator()
	first, err := o.Validate(cand, ctx)
	require.NoError(t, err)
	second, err := o.Validate(cand, ctx)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestReportFlattenedErrorsAndWarnings(t *testing.T) {
	cand := testCandidate()
	cand.Kind = KindExclusive
	cand.StartsAt = day(-1)
	cand.EndsAt = day(30)

	report, err := NewOrchestrator().Validate(cand, testContext(existing("Acme Co", KindNonExclusive, 14, 45)))
	require.NoError(t, err)

	assert.NotEmpty(t, report.Errors())
	assert.NotEmpty(t, report.Warnings())
}
