// internal/validation/ownership.go
package validation

import "fmt"

const CheckNameOwnership = "ownership"

// OwnershipCheck validates that the asset has a sound, undisputed, fully
// allocated ownership structure. Structural failures (status, share sum,
// primary owner, disputes, deleted accounts) block because they make royalty
// distribution impossible or legally unsound; documentation completeness and
// account activity are compliance hygiene and only warn. Every applicable
// failure is reported independently.
type OwnershipCheck struct{}

func (OwnershipCheck) Name() string { return CheckNameOwnership }

func (c OwnershipCheck) Evaluate(candidate *LicenseCandidate, ctx *Context) CheckResult {
	res := newResult(c.Name(), true)
	asset := ctx.Asset

	if asset.Deleted {
		res.Errors = append(res.Errors, "asset has been deleted and cannot be licensed")
	}
	if asset.Status != AssetStatusPublished && asset.Status != AssetStatusApproved {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"asset status %q does not allow licensing (must be published or approved)", asset.Status))
	}

	records := asset.Ownerships
	if len(records) == 0 {
		res.Errors = append(res.Errors, "asset has no ownership records")
	}

	shareSum := 0
	hasPrimary := false
	disputed := 0
	undocumented := 0
	for _, rec := range records {
		shareSum += rec.ShareBps
		if rec.Kind == OwnershipPrimary {
			hasPrimary = true
		}
		if rec.Disputed {
			disputed++
		}
		if rec.ContractReference == "" && rec.LegalDocumentURL == "" {
			undocumented++
		}

		if rec.CreatorDeleted {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"ownership record belongs to deleted creator account %s", rec.CreatorName))
		} else if !rec.CreatorActive {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"creator %s's account is inactive; review before licensing", rec.CreatorName))
		}
	}

	if shareSum != TotalShareBps {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"ownership shares total %.2f%%, must equal exactly 100%%", float64(shareSum)/100))
	}
	if !hasPrimary {
		res.Errors = append(res.Errors, "asset has no primary owner")
	}
	if disputed > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%d ownership record(s) are under dispute", disputed))
	}
	if candidate.FeeCents >= DocumentationReviewFeeCents && undocumented > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%d ownership record(s) lack supporting documentation for a high-value license", undocumented))
	}

	res.Details["share_sum_bps"] = shareSum
	res.Details["record_count"] = len(records)
	res.Details["disputed_count"] = disputed
	return res
}
