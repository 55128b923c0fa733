// internal/validation/check.go
package validation

import (
	"fmt"
	"sort"
	"time"
)

// Check is one independently evaluable validation rule. Checks are pure:
// they read the candidate and the pre-fetched context and never touch storage.
type Check interface {
	Name() string
	Evaluate(candidate *LicenseCandidate, ctx *Context) CheckResult
}

func newResult(name string, blocking bool) CheckResult {
	return CheckResult{
		Name:     name,
		Blocking: blocking,
		Details:  make(map[string]interface{}),
	}
}

// intervalsOverlap reports half-open interval intersection: [aStart, aEnd)
// intersects [bStart, bEnd).
func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return bStart.Before(aEnd) && aStart.Before(bEnd)
}

// overlapping returns the existing licenses whose intervals intersect the
// candidate's interval.
func overlapping(candidate *LicenseCandidate, existing []ExistingLicense) []ExistingLicense {
	var out []ExistingLicense
	for _, ex := range existing {
		if intervalsOverlap(candidate.StartsAt, candidate.EndsAt, ex.StartsAt, ex.EndsAt) {
			out = append(out, ex)
		}
	}
	return out
}

func intersectStrings(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[s] = true
	}
	var out []string
	for _, s := range a {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func joinStrings(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

func formatUSD(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
