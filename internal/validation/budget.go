// internal/validation/budget.go
package validation

import "fmt"

const CheckNameBudget = "budget"

// BudgetCheck validates the proposed fee against the two-tier budget policy:
// unverified brands carry a hard total-spend ceiling, verified brands only a
// review threshold on single fees.
type BudgetCheck struct{}

func (BudgetCheck) Name() string { return CheckNameBudget }

func (c BudgetCheck) Evaluate(candidate *LicenseCandidate, ctx *Context) CheckResult {
	res := newResult(c.Name(), true)

	if candidate.FeeCents <= 0 {
		res.Warnings = append(res.Warnings, "budget validation skipped: license has no upfront fee")
		res.Details["skipped"] = true
		return res
	}

	committed := ctx.Brand.CommittedFeeCents
	res.Details["committed_fee_cents"] = committed
	res.Details["requested_fee_cents"] = candidate.FeeCents
	res.Details["brand_verified"] = ctx.Brand.Verified

	if !ctx.Brand.Verified {
		if committed+candidate.FeeCents > UnverifiedBudgetCeilingCents {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"unverified brand budget ceiling exceeded: %s already committed, %s requested, limit %s",
				formatUSD(committed), formatUSD(candidate.FeeCents), formatUSD(UnverifiedBudgetCeilingCents)))
		}
		return res
	}

	if candidate.FeeCents > VerifiedFeeReviewCents {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"license fee %s exceeds %s; additional approval will be required",
			formatUSD(candidate.FeeCents), formatUSD(VerifiedFeeReviewCents)))
	}
	return res
}
