package serviceday

import "time"

// Period is a closed interval of time [Start, End].
type Period struct {
	Start time.Time
	End   time.Time
}

// Intersect returns the overlap of a and b. Periods that only touch at an
// endpoint overlap with zero width. ok is false when they are disjoint.
func Intersect(a, b Period) (overlap Period, ok bool) {
	latestStart := a.Start
	if b.Start.After(latestStart) {
		latestStart = b.Start
	}
	earliestEnd := a.End
	if b.End.Before(earliestEnd) {
		earliestEnd = b.End
	}
	if latestStart.After(earliestEnd) {
		return Period{}, false
	}
	return Period{Start: latestStart, End: earliestEnd}, true
}
