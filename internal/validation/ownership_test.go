// internal/validation/ownership_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnershipCheckPassesOnSoundStructure(t *testing.T) {
	res := OwnershipCheck{}.Evaluate(testCandidate(), testContext())

	assert.True(t, res.Passed())
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 10000, res.Details["share_sum_bps"])
}

func TestOwnershipCheckRejectsUnlicensableStatus(t *testing.T) {
	ctx := testContext()
	ctx.Asset.Status = "draft"

	res := OwnershipCheck{}.Evaluate(testCandidate(), ctx)

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors[0], `"draft"`)
}

func TestOwnershipCheckRejectsDeletedAssetRegardlessOfStatus(t *testing.T) {
	ctx := testContext()
	ctx.Asset.Deleted = true

	res := OwnershipCheck{}.Evaluate(testCandidate(), ctx)

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors[0], "deleted")
}

func TestOwnershipCheckShareSumInvariant(t *testing.T) {
	cases := []struct {
		name     string
		shares   []int
		wantPass bool
	}{
		{"two records summing to 10000", []int{6000, 4000}, true},
		{"single full owner", []int{10000}, true},
		{"many records summing to 10000", []int{2500, 2500, 2500, 2500}, true},
		{"under-allocated", []int{6000, 2000}, false},
		{"over-allocated", []int{6000, 6000}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testContext()
			ctx.Asset.Ownerships = nil
			for i, bps := range tc.shares {
				kind := OwnershipSecondary
				if i == 0 {
					kind = OwnershipPrimary
				}
				ctx.Asset.Ownerships = append(ctx.Asset.Ownerships, testOwner("Owner", bps, kind))
			}

			res := OwnershipCheck{}.Evaluate(testCandidate(), ctx)
			assert.Equal(t, tc.wantPass, res.Passed())
		})
	}
}

func TestOwnershipCheckShareSumErrorNamesPercentage(t *testing.T) {
	ctx := testContext()
	ctx.Asset.Ownerships = []OwnershipRecord{
		testOwner("Ana Reyes", 6000, OwnershipPrimary),
		testOwner("Leo Tanaka", 2000, OwnershipSecondary),
	}

	res := OwnershipCheck{}.Evaluate(testCandidate(), ctx)

	assert.False(t, res.Passed())
	assert.Contains(t, joinStrings(res.Errors), "80.00%")
}

func TestOwnershipCheckRejectsEmptyOwnership(t *testing.T) {
	ctx := testContext()
	ctx.Asset.Ownerships = nil

	res := OwnershipCheck{}.Evaluate(testCandidate(), ctx)

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors, "asset has no ownership records")
}

func TestOwnershipCheckRequiresPrimaryOwner(t *testing.T) {
	ctx := testContext()
	ctx.Asset.Ownerships = []OwnershipRecord{
		testOwner("Ana Reyes", 5000, OwnershipSecondary),
		testOwner("Leo Tanaka", 5000, OwnershipSecondary),
	}

	res := OwnershipCheck{}.Evaluate(testCandidate(), ctx)

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors, "asset has no primary owner")
}

func TestOwnershipCheckCreatorAccountStates(t *testing.T) {
	ctx := testContext()
	ctx.Asset.Ownerships[0].CreatorDeleted = true
	ctx.Asset.Ownerships[1].CreatorActive = false

	res := OwnershipCheck{}.Evaluate(testCandidate(), ctx)

	// Deleted account blocks and names the creator; inactive only warns.
	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors[0], "Ana Reyes")
	if assert.Len(t, res.Warnings, 1) {
		assert.Contains(t, res.Warnings[0], "Leo Tanaka")
	}
}

func TestOwnershipCheckAggregatesDisputes(t *testing.T) {
	ctx := testContext()
	ctx.Asset.Ownerships[0].Disputed = true
	ctx.Asset.Ownerships[1].Disputed = true

	res := OwnershipCheck{}.Evaluate(testCandidate(), ctx)

	assert.False(t, res.Passed())
	// One aggregated error, not one per record.
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "2 ownership record(s) are under dispute")
}

func TestOwnershipCheckDocumentationWarningForHighValueFee(t *testing.T) {
	ctx := testContext()
	ctx.Asset.Ownerships[0].ContractReference = ""
	ctx.Asset.Ownerships[0].LegalDocumentURL = ""
	ctx.Asset.Ownerships[1].ContractReference = ""
	ctx.Asset.Ownerships[1].LegalDocumentURL = "https://docs.example.com/deed.pdf"

	cand := testCandidate()
	cand.FeeCents = 500_000 // exactly $5,000

	res := OwnershipCheck{}.Evaluate(cand, ctx)

	assert.True(t, res.Passed())
	if assert.Len(t, res.Warnings, 1) {
		assert.Contains(t, res.Warnings[0], "1 ownership record(s) lack supporting documentation")
	}

	// Below the threshold nothing is flagged.
	cand.FeeCents = 499_999
	res = OwnershipCheck{}.Evaluate(cand, ctx)
	assert.Empty(t, res.Warnings)
}
