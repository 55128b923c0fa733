// internal/validation/exclusivity.go
package validation

import "fmt"

const CheckNameExclusivity = "exclusivity"

// ExclusivityCheck enforces exclusivity semantics beyond plain date overlap.
// Exclusivity is four orthogonal axes — temporal, territorial, categorical,
// and competitor-list — and every axis is evaluated and collected rather than
// short-circuited so the caller gets the complete conflict picture in one
// round trip.
type ExclusivityCheck struct{}

func (ExclusivityCheck) Name() string { return CheckNameExclusivity }

func (c ExclusivityCheck) Evaluate(candidate *LicenseCandidate, ctx *Context) CheckResult {
	res := newResult(c.Name(), true)
	overlap := overlapping(candidate, ctx.Existing)

	// Full exclusivity: an exclusive candidate tolerates no coexisting grant,
	// and an existing exclusive holder blocks everything.
	if candidate.Kind == KindExclusive && len(overlap) > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"cannot grant exclusive license: %d active/pending licenses exist for this asset", len(overlap)))
	}
	for _, ex := range overlap {
		if ex.Kind == KindExclusive {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"%s holds an exclusive license (%s to %s) that blocks any new grant",
				ex.BrandName, formatDate(ex.StartsAt), formatDate(ex.EndsAt)))
		}
	}

	// Territorial exclusivity. Full exclusive is strictly more restrictive
	// than exclusive_territory and is already handled above, so those pairs
	// are skipped here.
	var conflictTerritories []string
	for _, ex := range overlap {
		if candidate.Kind == KindExclusive || ex.Kind == KindExclusive {
			continue
		}
		if candidate.Kind != KindExclusiveTerritory && ex.Kind != KindExclusiveTerritory {
			continue
		}
		shared := TerritoryOverlap(candidate.Scope.Territories, ex.Scope.Territories)
		if len(shared) == 0 {
			continue
		}
		names := territoryNames(shared)
		conflictTerritories = append(conflictTerritories, names...)
		res.Errors = append(res.Errors, fmt.Sprintf(
			"territorial exclusivity conflict with %s in %s", ex.BrandName, joinStrings(names)))
	}

	// Category exclusivity: two grants cannot claim the same category.
	for _, ex := range overlap {
		if candidate.Scope.ExclusivityCategory == "" {
			continue
		}
		if candidate.Scope.ExclusivityCategory == ex.Scope.ExclusivityCategory {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"category exclusivity conflict: %s already holds a license in category %q",
				ex.BrandName, ex.Scope.ExclusivityCategory))
		}
	}

	// Competitor blocking applies regardless of dates or kind, so it scans
	// every existing license, not just the time-overlapping ones.
	for _, ex := range ctx.Existing {
		for _, blocked := range ex.BlockedCompetitors {
			if blocked == candidate.BrandID {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"%s's license terms list this brand as a blocked competitor", ex.BrandName))
				break
			}
		}
	}

	res.Details["overlapping_count"] = len(overlap)
	res.Details["conflicting_territories"] = conflictTerritories
	return res
}

// TerritoryOverlap computes the overlapping territories of two sets. The
// global sentinel short-circuits intersection: a side covering GLOBAL
// conflicts with the other side's full set.
func TerritoryOverlap(a, b []Territory) []Territory {
	if containsTerritory(a, TerritoryGlobal) {
		return append([]Territory(nil), b...)
	}
	if containsTerritory(b, TerritoryGlobal) {
		return append([]Territory(nil), a...)
	}
	set := make(map[Territory]bool, len(b))
	for _, t := range b {
		set[t] = true
	}
	var out []Territory
	for _, t := range a {
		if set[t] {
			out = append(out, t)
		}
	}
	return out
}

func containsTerritory(ts []Territory, target Territory) bool {
	for _, t := range ts {
		if t == target {
			return true
		}
	}
	return false
}

func territoryNames(ts []Territory) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
