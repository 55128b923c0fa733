// internal/validation/scope.go
package validation

import "fmt"

const CheckNameScopeConflict = "scope_conflict"

// ScopeConflictCheck validates that the candidate's usage scope is well-formed
// and does not amount to double-licensing identical usage. Plain media or
// placement overlap between non-exclusive grants is expected and only warns;
// only an exact full-scope duplicate is an error.
type ScopeConflictCheck struct{}

func (ScopeConflictCheck) Name() string { return CheckNameScopeConflict }

func (c ScopeConflictCheck) Evaluate(candidate *LicenseCandidate, ctx *Context) CheckResult {
	res := newResult(c.Name(), true)

	if len(candidate.Scope.MediaTypes) == 0 {
		res.Errors = append(res.Errors, "at least one media type must be selected")
	}
	if len(candidate.Scope.Placements) == 0 {
		res.Errors = append(res.Errors, "at least one placement must be selected")
	}

	duplicates := 0
	for _, ex := range overlapping(candidate, ctx.Existing) {
		if shared := intersectStrings(candidate.Scope.MediaTypes, ex.Scope.MediaTypes); len(shared) > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"media types %s overlap with license held by %s", joinStrings(shared), ex.BrandName))
		}
		if shared := intersectStrings(candidate.Scope.Placements, ex.Scope.Placements); len(shared) > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"placements %s overlap with license held by %s", joinStrings(shared), ex.BrandName))
		}

		if identicalScope(candidate.Scope, ex.Scope) {
			duplicates++
			res.Errors = append(res.Errors, fmt.Sprintf(
				"complete scope conflict with %s: an identical grant already exists", ex.BrandName))
		}

		if candidate.Scope.RequiresAttribution && ex.Scope.RequiresAttribution &&
			candidate.Scope.AttributionFormat != ex.Scope.AttributionFormat {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"attribution format differs from %s's license; review for compliance consistency", ex.BrandName))
		}
	}

	res.Details["duplicate_scope_count"] = duplicates
	return res
}

// identicalScope reports whether two scopes cover exactly the same media
// types, placements, territories, and category, regardless of ordering.
func identicalScope(a, b UsageScope) bool {
	return equalStringSets(a.MediaTypes, b.MediaTypes) &&
		equalStringSets(a.Placements, b.Placements) &&
		equalStringSets(territoryNames(a.Territories), territoryNames(b.Territories)) &&
		a.ExclusivityCategory == b.ExclusivityCategory
}
