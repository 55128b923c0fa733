// internal/validation/types.go
package validation

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// LicenseKind mirrors the marketplace license kinds. The engine keeps its own
// copy of the enum so the package stays free of persistence imports.
type LicenseKind string

const (
	KindExclusive          LicenseKind = "exclusive"
	KindExclusiveTerritory LicenseKind = "exclusive_territory"
	KindNonExclusive       LicenseKind = "non_exclusive"
)

// Territory is a geographic region code (ISO country code or a region tag).
// TerritoryGlobal is the sentinel that short-circuits set intersection: a
// global grant conflicts with every territory on the other side.
type Territory string

const TerritoryGlobal Territory = "GLOBAL"

type OwnershipKind string

const (
	OwnershipPrimary   OwnershipKind = "primary"
	OwnershipSecondary OwnershipKind = "secondary"
)

// Asset lifecycle statuses under which licensing is allowed.
const (
	AssetStatusPublished = "published"
	AssetStatusApproved  = "approved"
)

// UsageScope is the declared coverage of a license: what media, where it may
// be placed, in which territories, and under which exclusivity category.
type UsageScope struct {
	MediaTypes          []string    `json:"media_types"`
	Placements          []string    `json:"placements"`
	Territories         []Territory `json:"territories"`
	ExclusivityCategory string      `json:"exclusivity_category,omitempty"`
	RequiresAttribution bool        `json:"requires_attribution"`
	AttributionFormat   string      `json:"attribution_format,omitempty"`
}

// LicenseCandidate is the proposed license under evaluation. It is owned by
// the caller for the duration of a single validation call and never persisted
// by the engine.
type LicenseCandidate struct {
	AssetID            uuid.UUID              `json:"asset_id"`
	BrandID            uuid.UUID              `json:"brand_id"`
	Kind               LicenseKind            `json:"kind"`
	StartsAt           time.Time              `json:"starts_at"`
	EndsAt             time.Time              `json:"ends_at"`
	FeeCents           int64                  `json:"fee_cents"`
	RevenueShareBps    int                    `json:"revenue_share_bps"`
	Scope              UsageScope             `json:"scope"`
	BlockedCompetitors []uuid.UUID            `json:"blocked_competitors,omitempty"`
	Metadata           map[string]interface{} `json:"metadata,omitempty"`
}

// ExistingLicense is a previously granted license for the same asset in
// status active or pending approval. Read-only to the engine.
type ExistingLicense struct {
	ID                 uuid.UUID   `json:"id"`
	BrandID            uuid.UUID   `json:"brand_id"`
	BrandName          string      `json:"brand_name"`
	Kind               LicenseKind `json:"kind"`
	StartsAt           time.Time   `json:"starts_at"`
	EndsAt             time.Time   `json:"ends_at"`
	Scope              UsageScope  `json:"scope"`
	BlockedCompetitors []uuid.UUID `json:"blocked_competitors,omitempty"`
}

// OwnershipRecord is one creator's claim on the asset, with the account and
// documentation facts the ownership check needs.
type OwnershipRecord struct {
	CreatorID         uuid.UUID     `json:"creator_id"`
	CreatorName       string        `json:"creator_name"`
	ShareBps          int           `json:"share_bps"`
	Kind              OwnershipKind `json:"kind"`
	Disputed          bool          `json:"disputed"`
	ContractReference string        `json:"contract_reference,omitempty"`
	LegalDocumentURL  string        `json:"legal_document_url,omitempty"`
	CreatorDeleted    bool          `json:"creator_deleted"`
	CreatorActive     bool          `json:"creator_active"`
}

// AssetSnapshot is the slice of IP-asset state the engine reads.
type AssetSnapshot struct {
	ID         uuid.UUID         `json:"id"`
	Status     string            `json:"status"`
	Deleted    bool              `json:"deleted"`
	Ownerships []OwnershipRecord `json:"ownerships"`
}

// BrandSnapshot is the prospective licensee. CommittedFeeCents is the sum of
// fee cents across the brand's own active/pending licenses, precomputed by
// the caller.
type BrandSnapshot struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Verified          bool      `json:"verified"`
	CommittedFeeCents int64     `json:"committed_fee_cents"`
}

// Context bundles everything the checks need. It is assembled by the caller
// before invocation; the engine performs no I/O of its own.
type Context struct {
	Now      time.Time
	Existing []ExistingLicense
	Asset    *AssetSnapshot
	Brand    *BrandSnapshot
}

// CheckResult is the output of one check. Blocking results with a non-empty
// Errors list fail the overall validation; warnings never block but must be
// surfaced to the caller.
type CheckResult struct {
	Name     string                 `json:"name"`
	Blocking bool                   `json:"blocking"`
	Errors   []string               `json:"errors,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

func (r CheckResult) Passed() bool {
	return len(r.Errors) == 0
}

// ValidationReport aggregates all check results. OverallPassed is the AND of
// the blocking checks' pass states; informational checks never count toward
// failure.
type ValidationReport struct {
	Checks        map[string]CheckResult `json:"checks"`
	OverallPassed bool                   `json:"overall_passed"`
}

// Errors returns every blocking error across all checks, keyed order by
// check name, for callers that want a flat list.
func (r *ValidationReport) Errors() []string {
	var out []string
	for _, name := range sortedCheckNames(r.Checks) {
		out = append(out, r.Checks[name].Errors...)
	}
	return out
}

// Warnings returns every warning across all checks.
func (r *ValidationReport) Warnings() []string {
	var out []string
	for _, name := range sortedCheckNames(r.Checks) {
		out = append(out, r.Checks[name].Warnings...)
	}
	return out
}

func sortedCheckNames(checks map[string]CheckResult) []string {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
