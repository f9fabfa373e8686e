package converter

import (
	"fmt"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

// MergePolicy combines the stops already recorded for a trip with the stops a
// later alert resolved for the same trip. existing is nil the first time a
// trip is seen.
type MergePolicy func(existing, incoming []transit.ScheduleEntry) []transit.ScheduleEntry

// Merge policy names accepted by ParseMergePolicy.
const (
	MergeLatest = "latest"
	MergeUnion  = "union"
)

// PreferLatest keeps only the stops of the most recently processed alert.
func PreferLatest(_, incoming []transit.ScheduleEntry) []transit.ScheduleEntry {
	return incoming
}

// UnionStops keeps the stops of both alerts. A stop both name at the same
// sequence is kept once, from the incoming entry. Distinct stops sharing a
// sequence are all kept in input order.
func UnionStops(existing, incoming []transit.ScheduleEntry) []transit.ScheduleEntry {
	if len(existing) == 0 {
		return incoming
	}
	byStop := make(map[stopKey]int, len(existing)+len(incoming))
	merged := make([]transit.ScheduleEntry, 0, len(existing)+len(incoming))
	for _, list := range [][]transit.ScheduleEntry{existing, incoming} {
		for _, e := range list {
			key := stopKey{sequence: e.StopSequence, stopID: e.StopID}
			if i, ok := byStop[key]; ok {
				merged[i] = e
				continue
			}
			byStop[key] = len(merged)
			merged = append(merged, e)
		}
	}
	transit.SortByStopSequence(merged)
	return merged
}

// ParseMergePolicy resolves a configured policy name. The empty name selects
// PreferLatest.
func ParseMergePolicy(name string) (MergePolicy, error) {
	switch name {
	case "", MergeLatest:
		return PreferLatest, nil
	case MergeUnion:
		return UnionStops, nil
	default:
		return nil, fmt.Errorf("unknown merge policy %q", name)
	}
}
