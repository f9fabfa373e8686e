package converter

import (
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/serviceday"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

// BuildCancellation turns a trip and its ordered stops into a cancellation
// record dated on the service day of ref. The route comes from the first stop
// and is empty when there are no stops.
func BuildCancellation(cal serviceday.Calendar, tripID string, stops []transit.ScheduleEntry, ref time.Time) transit.CancellationEntity {
	entity := transit.CancellationEntity{
		ID:              tripID,
		TripID:          tripID,
		StartDate:       cal.ServiceDay(ref).Format(),
		Timestamp:       ref,
		StopTimeUpdates: make([]transit.SkippedStop, 0, len(stops)),
	}
	if len(stops) > 0 {
		entity.RouteID = stops[0].RouteID
	}
	for _, s := range stops {
		entity.StopTimeUpdates = append(entity.StopTimeUpdates, transit.SkippedStop{
			StopID:       s.StopID,
			StopSequence: s.StopSequence,
		})
	}
	return entity
}

// BuildCancellations builds one record per trip, ordered by trip id.
func BuildCancellations(cal serviceday.Calendar, affected transit.AffectedScheduleMap, ref time.Time) []transit.CancellationEntity {
	entities := make([]transit.CancellationEntity, 0, len(affected))
	for _, tripID := range affected.TripIDs() {
		entities = append(entities, BuildCancellation(cal, tripID, affected[tripID], ref))
	}
	return entities
}
