package converter

import "github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"

// EntityGroups holds the actionable scopes of one alert.
type EntityGroups struct {
	Trips  []string
	Routes []string
}

// Empty reports whether the alert has nothing to cancel.
func (g EntityGroups) Empty() bool {
	return len(g.Trips) == 0 && len(g.Routes) == 0
}

// Filters returns one schedule filter per non-empty group, trips first.
func (g EntityGroups) Filters() []transit.ScheduleFilter {
	filters := make([]transit.ScheduleFilter, 0, 2)
	if len(g.Trips) > 0 {
		filters = append(filters, transit.TripFilter{IDs: g.Trips})
	}
	if len(g.Routes) > 0 {
		filters = append(filters, transit.RouteFilter{IDs: g.Routes})
	}
	return filters
}

// Classify splits informed entities into trip and route groups. Entities that
// name a stop are left out entirely: a stop-level alert never cancels a whole
// trip. A route only counts when the entity names no trip. Ids are distinct and
// keep their first-seen order.
func Classify(entities []transit.InformedEntity) EntityGroups {
	var groups EntityGroups
	seenTrips := map[string]bool{}
	seenRoutes := map[string]bool{}
	for _, e := range entities {
		if e.Stop != "" {
			continue
		}
		switch {
		case e.Trip != "":
			if !seenTrips[e.Trip] {
				seenTrips[e.Trip] = true
				groups.Trips = append(groups.Trips, e.Trip)
			}
		case e.Route != "":
			if !seenRoutes[e.Route] {
				seenRoutes[e.Route] = true
				groups.Routes = append(groups.Routes, e.Route)
			}
		}
	}
	return groups
}
