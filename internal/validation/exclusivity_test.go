// internal/validation/exclusivity_test.go
package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExclusivityCheckExclusiveCandidateBlockedByAnyOverlap(t *testing.T) {
	cand := testCandidate()
	cand.Kind = KindExclusive
	ex := existing("Acme Co", KindNonExclusive, 14, 45)

	res := ExclusivityCheck{}.Evaluate(cand, testContext(ex))

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors[0], "cannot grant exclusive license: 1 active/pending licenses exist")
}

func TestExclusivityCheckExistingExclusiveBlocksEverything(t *testing.T) {
	ex := existing("Acme Co", KindExclusive, 14, 45)

	for _, kind := range []LicenseKind{KindNonExclusive, KindExclusiveTerritory, KindExclusive} {
		cand := testCandidate()
		cand.Kind = kind
		res := ExclusivityCheck{}.Evaluate(cand, testContext(ex))
		assert.False(t, res.Passed(), "existing exclusive must block candidate kind %s", kind)
	}
}

func TestExclusivityCheckRemovingOverlapRemovesError(t *testing.T) {
	cand := testCandidate()
	cand.Kind = KindExclusive
	ex := existing("Acme Co", KindNonExclusive, 14, 45)

	res := ExclusivityCheck{}.Evaluate(cand, testContext(ex))
	assert.False(t, res.Passed())

	// Moving the intervals apart must clear the conflict.
	moved := ex
	moved.StartsAt = day(60)
	moved.EndsAt = day(90)
	res = ExclusivityCheck{}.Evaluate(cand, testContext(moved))
	assert.True(t, res.Passed())
}

func TestExclusivityCheckTerritorialConflictNamesTerritories(t *testing.T) {
	cand := testCandidate()
	cand.Kind = KindExclusiveTerritory
	cand.Scope.Territories = []Territory{"US", "CA"}

	ex := existing("Acme Co", KindExclusiveTerritory, 14, 45)
	ex.Scope.Territories = []Territory{"CA", "MX"}

	res := ExclusivityCheck{}.Evaluate(cand, testContext(ex))

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors[0], "CA")
	assert.NotContains(t, res.Errors[0], "MX")
	assert.Equal(t, []string{"CA"}, res.Details["conflicting_territories"])
}

func TestExclusivityCheckTerritorialVsNonExclusive(t *testing.T) {
	// An exclusive-territory grant conflicts with any other kind covering the
	// same territories.
	cand := testCandidate()
	cand.Scope.Territories = []Territory{"US"}

	ex := existing("Acme Co", KindExclusiveTerritory, 14, 45)
	ex.Scope.Territories = []Territory{"US", "GB"}

	res := ExclusivityCheck{}.Evaluate(cand, testContext(ex))
	assert.False(t, res.Passed())

	// Disjoint territories coexist.
	ex.Scope.Territories = []Territory{"GB"}
	res = ExclusivityCheck{}.Evaluate(cand, testContext(ex))
	assert.True(t, res.Passed())
}

func TestTerritoryOverlapGlobalSentinel(t *testing.T) {
	assert.Equal(t, []Territory{"US", "CA"}, TerritoryOverlap([]Territory{TerritoryGlobal}, []Territory{"US", "CA"}))
	assert.Equal(t, []Territory{"US", "CA"}, TerritoryOverlap([]Territory{"US", "CA"}, []Territory{TerritoryGlobal}))
	assert.Empty(t, TerritoryOverlap([]Territory{TerritoryGlobal}, nil))
	assert.Equal(t, []Territory{"CA"}, TerritoryOverlap([]Territory{"US", "CA"}, []Territory{"CA", "MX"}))
	assert.Empty(t, TerritoryOverlap([]Territory{"US"}, []Territory{"MX"}))
}

func TestExclusivityCheckCategoryConflict(t *testing.T) {
	cand := testCandidate()
	cand.Scope.ExclusivityCategory = "sportswear"

	ex := existing("Acme Co", KindNonExclusive, 14, 45)
	ex.Scope.Territories = []Territory{"GB"}
	ex.Scope.ExclusivityCategory = "sportswear"

	res := ExclusivityCheck{}.Evaluate(cand, testContext(ex))

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors[0], `"sportswear"`)
	assert.Contains(t, res.Errors[0], "Acme Co")

	// A different category coexists.
	ex.Scope.ExclusivityCategory = "footwear"
	res = ExclusivityCheck{}.Evaluate(cand, testContext(ex))
	assert.True(t, res.Passed())
}

func TestExclusivityCheckCompetitorBlockingIgnoresDates(t *testing.T) {
	cand := testCandidate()

	// Entirely outside the candidate's dates, but competitor blocking applies
	// regardless of overlap.
	ex := existing("Acme Co", KindNonExclusive, 100, 130)
	ex.BlockedCompetitors = []uuid.UUID{cand.BrandID}

	res := ExclusivityCheck{}.Evaluate(cand, testContext(ex))

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors[0], "blocked competitor")
}

func TestExclusivityCheckCollectsAllAxes(t *testing.T) {
	cand := testCandidate()
	cand.Kind = KindExclusive
	cand.Scope.ExclusivityCategory = "sportswear"

	ex := existing("Acme Co", KindExclusive, 14, 45)
	ex.Scope.ExclusivityCategory = "sportswear"
	ex.BlockedCompetitors = []uuid.UUID{cand.BrandID}

	res := ExclusivityCheck{}.Evaluate(cand, testContext(ex))

	// Full exclusivity (both directions), category, and competitor axes all
	// report; nothing short-circuits.
	assert.Len(t, res.Errors, 4)
}
