// internal/validation/orchestrator.go
package validation

import (
	"errors"
	"time"
)

// Orchestrator composes the six checks and owns the aggregation contract.
// Business-rule failures are data in the report, never errors; Validate
// returns an error only when a required context field is absent, since there
// is no meaningful partial validation without it.
type Orchestrator struct {
	checks []Check
}

// NewOrchestrator wires the standard check set: five blocking checks plus the
// informational approval-requirement check.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		checks: []Check{
			IntervalOverlapCheck{},
			ExclusivityCheck{},
			ScopeConflictCheck{},
			BudgetCheck{},
			OwnershipCheck{},
			ApprovalRequirementCheck{},
		},
	}
}

// Validate runs every check against an immutable snapshot and aggregates the
// results. Safe for concurrent use; the engine holds no state across calls.
func (o *Orchestrator) Validate(candidate *LicenseCandidate, ctx *Context) (*ValidationReport, error) {
	if candidate == nil {
		return nil, errors.New("validation: candidate is required")
	}
	if ctx == nil {
		return nil, errors.New("validation: context is required")
	}
	if ctx.Asset == nil {
		return nil, errors.New("validation: context is missing the asset snapshot")
	}
	if ctx.Brand == nil {
		return nil, errors.New("validation: context is missing the brand snapshot")
	}

	// Work on a shallow copy so defaulting Now never mutates the caller's
	// context; repeated calls with an explicit Now stay byte-identical.
	snapshot := *ctx
	if snapshot.Now.IsZero() {
		snapshot.Now = time.Now().UTC()
	}

	report := &ValidationReport{
		Checks:        make(map[string]CheckResult, len(o.checks)),
		OverallPassed: true,
	}
	for _, check := range o.checks {
		result := check.Evaluate(candidate, &snapshot)
		report.Checks[result.Name] = result
		if result.Blocking && !result.Passed() {
			report.OverallPassed = false
		}
	}
	return report, nil
}
