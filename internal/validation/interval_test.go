// internal/validation/interval_test.go
package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalsOverlapSymmetry(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"disjoint", day(0), day(10), day(10), day(20), false},
		{"touching boundaries do not overlap", day(0), day(10), day(10), day(15), false},
		{"partial overlap", day(0), day(10), day(5), day(15), true},
		{"containment", day(0), day(30), day(5), day(10), true},
		{"identical", day(0), day(10), day(0), day(10), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, intervalsOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			assert.Equal(t, tc.want, intervalsOverlap(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd), "overlap must be symmetric")
		})
	}
}

func TestIntervalsOverlapSelf(t *testing.T) {
	assert.True(t, intervalsOverlap(day(0), day(10), day(0), day(10)))
}

func TestIntervalOverlapCheckRejectsInvertedDates(t *testing.T) {
	cand := testCandidate()
	cand.StartsAt = day(10)
	cand.EndsAt = day(10)

	res := IntervalOverlapCheck{}.Evaluate(cand, testContext())

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors, "end date must be after start date")
	// Malformed dates short-circuit; no overlap analysis runs.
	assert.Empty(t, res.Warnings)
}

func TestIntervalOverlapCheckWarnsOnPastStart(t *testing.T) {
	cand := testCandidate()
	cand.StartsAt = day(-5)

	res := IntervalOverlapCheck{}.Evaluate(cand, testContext())

	assert.True(t, res.Passed())
	assert.Contains(t, res.Warnings, "start date is in the past")
}

func TestIntervalOverlapCheckExclusiveConflict(t *testing.T) {
	ex := existing("Acme Co", KindNonExclusive, 14, 45)
	cand := testCandidate()
	cand.Kind = KindExclusive

	res := IntervalOverlapCheck{}.Evaluate(cand, testContext(ex))

	assert.False(t, res.Passed())
	assert.Contains(t, res.Errors[0], "Acme Co")

	// Existing exclusive blocks a non-exclusive candidate too.
	cand2 := testCandidate()
	res2 := IntervalOverlapCheck{}.Evaluate(cand2, testContext(existing("Acme Co", KindExclusive, 14, 45)))
	assert.False(t, res2.Passed())
}

func TestIntervalOverlapCheckNonExclusivePairOnlyWarns(t *testing.T) {
	ex := existing("Acme Co", KindNonExclusive, 14, 45)

	res := IntervalOverlapCheck{}.Evaluate(testCandidate(), testContext(ex))

	assert.True(t, res.Passed())
	if assert.Len(t, res.Warnings, 1) {
		assert.Contains(t, res.Warnings[0], "Acme Co")
		assert.Contains(t, res.Warnings[0], ex.ID.String())
	}
}

func TestIntervalOverlapCheckDefersTerritorialKind(t *testing.T) {
	// exclusive_territory combinations are resolved by the exclusivity check,
	// not here.
	ex := existing("Acme Co", KindExclusiveTerritory, 14, 45)

	res := IntervalOverlapCheck{}.Evaluate(testCandidate(), testContext(ex))

	assert.True(t, res.Passed())
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, res.Details["overlap_count"])
}

func TestIntervalOverlapCheckIgnoresDisjointLicenses(t *testing.T) {
	ex := existing("Acme Co", KindExclusive, 50, 60)

	res := IntervalOverlapCheck{}.Evaluate(testCandidate(), testContext(ex))

	assert.True(t, res.Passed())
	assert.Empty(t, res.Warnings)
}
