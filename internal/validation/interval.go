// internal/validation/interval.go
package validation

import "fmt"

const CheckNameIntervalOverlap = "interval_overlap"

// IntervalOverlapCheck validates the candidate's date range and reports plain
// temporal conflicts with existing licenses. Territorial exclusivity is not
// resolved here; that belongs to ExclusivityCheck, since territory math
// decides whether such an overlap is real.
type IntervalOverlapCheck struct{}

func (IntervalOverlapCheck) Name() string { return CheckNameIntervalOverlap }

func (c IntervalOverlapCheck) Evaluate(candidate *LicenseCandidate, ctx *Context) CheckResult {
	res := newResult(c.Name(), true)

	if !candidate.EndsAt.After(candidate.StartsAt) {
		res.Errors = append(res.Errors, "end date must be after start date")
		return res
	}

	if candidate.StartsAt.Before(ctx.Now) {
		res.Warnings = append(res.Warnings, "start date is in the past")
	}

	var conflictIDs []string
	for _, ex := range ctx.Existing {
		if !intervalsOverlap(candidate.StartsAt, candidate.EndsAt, ex.StartsAt, ex.EndsAt) {
			continue
		}
		conflictIDs = append(conflictIDs, ex.ID.String())

		switch {
		case candidate.Kind == KindExclusive || ex.Kind == KindExclusive:
			res.Errors = append(res.Errors, fmt.Sprintf(
				"dates conflict with an exclusive grant held by %s (%s to %s)",
				ex.BrandName, formatDate(ex.StartsAt), formatDate(ex.EndsAt)))
		case candidate.Kind == KindNonExclusive && ex.Kind == KindNonExclusive:
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"dates overlap with non-exclusive license %s held by %s; verify usage scopes do not collide",
				ex.ID, ex.BrandName))
		}
		// Combinations involving exclusive_territory are deferred to the
		// exclusivity check.
	}

	res.Details["overlapping_license_ids"] = conflictIDs
	res.Details["overlap_count"] = len(conflictIDs)
	return res
}
