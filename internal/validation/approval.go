// internal/validation/approval.go
package validation

import "fmt"

const CheckNameApprovalRequirement = "approval_requirement"

// Approver types and routing reasons.
const (
	ApproverTypeCreator = "creator"
	ApproverTypeAdmin   = "admin"

	ReasonCreatorApproval = "creator approval"
	ReasonHighValue       = "high-value license"
	ReasonExclusive       = "exclusive license"
	ReasonUnverifiedBrand = "unverified brand"
)

// Approver is one entry in the routing list a license must pass through
// before activation. Admin entries are role-routed and carry no identity;
// they stay distinct by reason.
type Approver struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// ApprovalRequirementCheck derives the approver routing for a candidate. It
// is informational: its Errors list is empty by construction and it never
// blocks license creation.
type ApprovalRequirementCheck struct{}

func (ApprovalRequirementCheck) Name() string { return CheckNameApprovalRequirement }

func (c ApprovalRequirementCheck) Evaluate(candidate *LicenseCandidate, ctx *Context) CheckResult {
	res := newResult(c.Name(), false)

	var approvers []Approver
	seen := make(map[string]bool)
	add := func(a Approver) {
		key := a.Type + "|" + a.ID + "|" + a.Reason
		if seen[key] {
			return
		}
		seen[key] = true
		approvers = append(approvers, a)
	}

	// Creator approval is always required, once per distinct creator.
	for _, rec := range ctx.Asset.Ownerships {
		add(Approver{
			Type:   ApproverTypeCreator,
			ID:     rec.CreatorID.String(),
			Name:   rec.CreatorName,
			Reason: ReasonCreatorApproval,
		})
	}

	if candidate.FeeCents >= AdminApprovalFeeCents {
		add(Approver{Type: ApproverTypeAdmin, Reason: ReasonHighValue})
	}
	if candidate.Kind == KindExclusive || candidate.Kind == KindExclusiveTerritory {
		add(Approver{Type: ApproverTypeAdmin, Reason: ReasonExclusive})
	}
	if !ctx.Brand.Verified {
		add(Approver{Type: ApproverTypeAdmin, Reason: ReasonUnverifiedBrand})
	}

	if candidate.Kind == KindExclusive && containsTerritory(candidate.Scope.Territories, TerritoryGlobal) {
		res.Warnings = append(res.Warnings, "global exclusive license requires review")
	}
	if days := int(candidate.EndsAt.Sub(candidate.StartsAt).Hours() / 24); days > LongDurationDays {
		res.Warnings = append(res.Warnings, fmt.Sprintf("long-duration license (%d days) requires review", days))
	}
	if candidate.FeeCents > 0 && candidate.RevenueShareBps > 0 {
		res.Warnings = append(res.Warnings, "hybrid pricing (upfront fee plus revenue share) requires review")
	}

	reasons := make([]string, 0, len(approvers))
	seenReason := make(map[string]bool)
	for _, a := range approvers {
		if !seenReason[a.Reason] {
			seenReason[a.Reason] = true
			reasons = append(reasons, a.Reason)
		}
	}

	res.Details["approvers"] = approvers
	res.Details["reasons"] = reasons
	return res
}
