// internal/validation/scope_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeConflictCheckRequiresMediaAndPlacements(t *testing.T) {
	cand := testCandidate()
	cand.Scope.MediaTypes = nil
	cand.Scope.Placements = nil

	res := ScopeConflictCheck{}.Evaluate(cand, testContext())

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors, "at least one media type must be selected")
	assert.Contains(t, res.Errors, "at least one placement must be selected")
}

func TestScopeConflictCheckOverlapIsOnlyAWarning(t *testing.T) {
	cand := testCandidate()
	cand.Scope.MediaTypes = []string{"digital", "print"}
	cand.Scope.Placements = []string{"social_media", "billboard"}

	ex := existing("Acme Co", KindNonExclusive, 14, 45)
	ex.Scope.MediaTypes = []string{"print"}
	ex.Scope.Placements = []string{"billboard", "retail"}

	res := ScopeConflictCheck{}.Evaluate(cand, testContext(ex))

	assert.True(t, res.Passed())
	assert.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "print")
	assert.Contains(t, res.Warnings[1], "billboard")
}

func TestScopeConflictCheckIdenticalScopeIsAnError(t *testing.T) {
	cand := testCandidate()
	cand.Scope.MediaTypes = []string{"digital", "print"}
	cand.Scope.Placements = []string{"social_media"}
	cand.Scope.Territories = []Territory{"US", "CA"}
	cand.Scope.ExclusivityCategory = "sportswear"

	ex := existing("Acme Co", KindNonExclusive, 14, 45)
	// Same scope, different ordering: still identical.
	ex.Scope.MediaTypes = []string{"print", "digital"}
	ex.Scope.Placements = []string{"social_media"}
	ex.Scope.Territories = []Territory{"CA", "US"}
	ex.Scope.ExclusivityCategory = "sportswear"

	res := ScopeConflictCheck{}.Evaluate(cand, testContext(ex))

	assert.False(t, res.Passed())
	errorText := joinStrings(res.Errors)
	assert.Contains(t, errorText, "complete scope conflict")
	assert.Contains(t, errorText, "Acme Co")
	assert.Equal(t, 1, res.Details["duplicate_scope_count"])
}

func TestScopeConflictCheckPartialScopeIsNotIdentical(t *testing.T) {
	cand := testCandidate()
	ex := existing("Acme Co", KindNonExclusive, 14, 45)
	ex.Scope.Territories = []Territory{"US", "GB"}

	res := ScopeConflictCheck{}.Evaluate(cand, testContext(ex))

	assert.True(t, res.Passed())
}

func TestScopeConflictCheckAttributionFormatMismatchWarns(t *testing.T) {
	cand := testCandidate()
	cand.Scope.MediaTypes = []string{"audio"}
	cand.Scope.Placements = []string{"podcast"}
	cand.Scope.RequiresAttribution = true
	cand.Scope.AttributionFormat = "© {creator}"

	ex := existing("Acme Co", KindNonExclusive, 14, 45)
	ex.Scope.RequiresAttribution = true
	ex.Scope.AttributionFormat = "Licensed from {creator}"

	res := ScopeConflictCheck{}.Evaluate(cand, testContext(ex))

	assert.True(t, res.Passed())
	if assert.Len(t, res.Warnings, 1) {
		assert.Contains(t, res.Warnings[0], "attribution format")
	}
}
