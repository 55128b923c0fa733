// internal/validation/thresholds.go
package validation

// Authoritative money and share thresholds, kept in one place so the budget
// check and the approval-requirement check cannot drift apart.
const (
	// UnverifiedBudgetCeilingCents is the hard ceiling on total committed
	// spend (existing plus requested) for an unverified brand: $10,000.
	UnverifiedBudgetCeilingCents int64 = 1_000_000

	// VerifiedFeeReviewCents triggers an extra-approval warning for verified
	// brands: $100,000.
	VerifiedFeeReviewCents int64 = 10_000_000

	// AdminApprovalFeeCents is the fee at or above which a license routes
	// through an admin approver: $10,000.
	AdminApprovalFeeCents int64 = 1_000_000

	// DocumentationReviewFeeCents is the fee at or above which ownership
	// records without documentation are flagged: $5,000.
	DocumentationReviewFeeCents int64 = 500_000

	// TotalShareBps is the exact ownership share total a licensable asset
	// must carry.
	TotalShareBps = 10000

	// LongDurationDays flags licenses running longer than a year for review.
	LongDurationDays = 365
)
