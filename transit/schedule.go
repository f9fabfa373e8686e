package transit

import (
	"sort"
	"strings"
)

// ScheduleEntry is one stop visited by a scheduled trip.
type ScheduleEntry struct {
	TripID       string
	RouteID      string
	StopID       string
	StopSequence int
}

// AffectedScheduleMap maps a trip id to its stops ordered by stop sequence.
type AffectedScheduleMap map[string][]ScheduleEntry

// TripIDs returns the map's trip ids in ascending order.
func (m AffectedScheduleMap) TripIDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortByStopSequence orders entries by stop sequence in place. Ties keep their
// input order.
func SortByStopSequence(entries []ScheduleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StopSequence < entries[j].StopSequence
	})
}

// ScheduleFilter selects the trips a schedule query covers. It is either a
// TripFilter or a RouteFilter; no other implementation exists.
type ScheduleFilter interface {
	Kind() string
	Values() []string
	isScheduleFilter()
}

// TripFilter selects schedules by trip id.
type TripFilter struct {
	IDs []string
}

func (TripFilter) Kind() string       { return "trip" }
func (f TripFilter) Values() []string { return f.IDs }
func (TripFilter) isScheduleFilter()  {}

// RouteFilter selects schedules by route id.
type RouteFilter struct {
	IDs []string
}

func (RouteFilter) Kind() string       { return "route" }
func (f RouteFilter) Values() []string { return f.IDs }
func (RouteFilter) isScheduleFilter()  {}

// ScheduleQuery asks the schedule source for the stops of the selected trips
// between MinTime and MaxTime, both extended HH:MM:SS times of day.
type ScheduleQuery struct {
	Filter  ScheduleFilter
	MinTime string
	MaxTime string
}

// String renders the query for logs.
func (q ScheduleQuery) String() string {
	kind, ids := "none", ""
	if q.Filter != nil {
		kind, ids = q.Filter.Kind(), strings.Join(q.Filter.Values(), ",")
	}
	return kind + "=" + ids + " " + q.MinTime + "-" + q.MaxTime
}
