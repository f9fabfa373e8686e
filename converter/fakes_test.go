package converter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/serviceday"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

var newYork = serviceday.MustLoadLocation("America/New_York")

// at returns a New York wall-clock instant.
func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, newYork)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

type fakeAlerts struct {
	alerts  []transit.Alert
	err     error
	effects []string
}

func (f *fakeAlerts) FetchAlerts(_ context.Context, effects ...string) ([]transit.Alert, error) {
	f.effects = effects
	return f.alerts, f.err
}

// fakeSchedules answers queries with respond and records every query it sees.
type fakeSchedules struct {
	mu      sync.Mutex
	queries []transit.ScheduleQuery
	respond func(q transit.ScheduleQuery) ([]transit.ScheduleEntry, error)
}

func (f *fakeSchedules) FetchSchedules(_ context.Context, q transit.ScheduleQuery) ([]transit.ScheduleEntry, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(q)
}

func (f *fakeSchedules) seen() []transit.ScheduleQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transit.ScheduleQuery(nil), f.queries...)
}

// byTrip answers trip queries from a fixed table keyed by trip id.
func byTrip(table map[string][]transit.ScheduleEntry) func(transit.ScheduleQuery) ([]transit.ScheduleEntry, error) {
	return func(q transit.ScheduleQuery) ([]transit.ScheduleEntry, error) {
		var out []transit.ScheduleEntry
		for _, id := range q.Filter.Values() {
			out = append(out, table[id]...)
		}
		return out, nil
	}
}

func stop(trip, route, stopID string, seq int) transit.ScheduleEntry {
	return transit.ScheduleEntry{TripID: trip, RouteID: route, StopID: stopID, StopSequence: seq}
}
