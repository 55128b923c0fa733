// internal/validation/approval_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func approversOf(res CheckResult) []Approver {
	return res.Details["approvers"].([]Approver)
}

func TestApprovalRequirementCheckNeverBlocks(t *testing.T) {
	cand := testCandidate()
	cand.Kind = KindExclusive
	cand.FeeCents = 50_000_000
	ctx := testContext()
	ctx.Brand.Verified = false

	res := ApprovalRequirementCheck{}.Evaluate(cand, ctx)

	assert.False(t, res.Blocking)
	assert.Empty(t, res.Errors)
	assert.True(t, res.Passed())
}

func TestApprovalRequirementCheckCreatorApprovalAlwaysRequired(t *testing.T) {
	res := ApprovalRequirementCheck{}.Evaluate(testCandidate(), testContext())

	approvers := approversOf(res)
	assert.Len(t, approvers, 2)
	for _, a := range approvers {
		assert.Equal(t, ApproverTypeCreator, a.Type)
		assert.Equal(t, ReasonCreatorApproval, a.Reason)
	}
}

func TestApprovalRequirementCheckAdditivity(t *testing.T) {
	// creators (2) + high value (1) + exclusive kind (1) + unverified brand (1)
	cand := testCandidate()
	cand.Kind = KindExclusiveTerritory
	cand.FeeCents = 1_000_000
	ctx := testContext()
	ctx.Brand.Verified = false

	res := ApprovalRequirementCheck{}.Evaluate(cand, ctx)

	approvers := approversOf(res)
	assert.Len(t, approvers, 5)

	reasons := res.Details["reasons"].([]string)
	assert.ElementsMatch(t, []string{
		ReasonCreatorApproval, ReasonHighValue, ReasonExclusive, ReasonUnverifiedBrand,
	}, reasons)
}

func TestApprovalRequirementCheckDeduplicatesCreators(t *testing.T) {
	ctx := testContext()
	// The same creator appears on two ownership records.
	dup := ctx.Asset.Ownerships[0]
	dup.ShareBps = 4000
	dup.Kind = OwnershipSecondary
	ctx.Asset.Ownerships = append(ctx.Asset.Ownerships, dup)

	res := ApprovalRequirementCheck{}.Evaluate(testCandidate(), ctx)

	assert.Len(t, approversOf(res), 2)
}

func TestApprovalRequirementCheckFeeBoundary(t *testing.T) {
	cand := testCandidate()
	cand.FeeCents = 999_999

	res := ApprovalRequirementCheck{}.Evaluate(cand, testContext())
	assert.Len(t, approversOf(res), 2)

	cand.FeeCents = 1_000_000
	res = ApprovalRequirementCheck{}.Evaluate(cand, testContext())
	assert.Len(t, approversOf(res), 3)
}

func TestApprovalRequirementCheckReviewFlags(t *testing.T) {
	cand := testCandidate()
	cand.Kind = KindExclusive
	cand.Scope.Territories = []Territory{TerritoryGlobal}
	cand.EndsAt = cand.StartsAt.AddDate(2, 0, 0)
	cand.FeeCents = 100_000
	cand.RevenueShareBps = 500

	res := ApprovalRequirementCheck{}.Evaluate(cand, testContext())

	warnings := joinStrings(res.Warnings)
	assert.Contains(t, warnings, "global exclusive")
	assert.Contains(t, warnings, "long-duration")
	assert.Contains(t, warnings, "hybrid pricing")
}

func TestApprovalRequirementCheckNoFlagsForPlainCandidate(t *testing.T) {
	res := ApprovalRequirementCheck{}.Evaluate(testCandidate(), testContext())
	assert.Empty(t, res.Warnings)
}
