package snapshot

import (
	"sort"

	"github.com/manav03panchal/daymark/internal/clock"
)

// Policy bounds how many snapshots a user keeps. Zero means unlimited.
type Policy struct {
	MaxDays  int `json:"maxDays"`
	MaxCount int `json:"maxCount"`
}

// Unlimited reports whether the policy never prunes.
func (p Policy) Unlimited() bool {
	return p.MaxDays <= 0 && p.MaxCount <= 0
}

// PlanPrune returns the dates a policy removes, oldest first.
//
// The age pass runs first: with MaxDays = n the window is the n days ending
// today, so anything before today-(n-1) goes. The count pass then keeps the
// MaxCount most recent survivors. Dates after today count as recent.
func PlanPrune(dates []string, today string, p Policy) []string {
	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	pruned := make([]string, 0)
	survivors := make([]string, 0, len(sorted))

	if p.MaxDays > 0 {
		cutoff := clock.ShiftDate(today, -(p.MaxDays - 1))
		for _, d := range sorted {
			if d < cutoff {
				pruned = append(pruned, d)
			} else {
				survivors = append(survivors, d)
			}
		}
	} else {
		survivors = append(survivors, sorted...)
	}

	if p.MaxCount > 0 && len(survivors) > p.MaxCount {
		pruned = append(pruned, survivors[p.MaxCount:]...)
	}

	sort.Strings(pruned)
	return pruned
}
