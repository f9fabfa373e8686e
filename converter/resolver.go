package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/serviceday"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

// ClipToServiceDay intersects each active period with the service-day window
// of ref. Open-ended periods are first closed at the window end. Periods that
// miss the window are dropped.
func ClipToServiceDay(cal serviceday.Calendar, periods []transit.ActivePeriod, ref time.Time) []serviceday.Period {
	window := cal.Window(ref)
	clipped := make([]serviceday.Period, 0, len(periods))
	for _, ap := range periods {
		p := serviceday.Period{Start: ap.Start, End: ap.End}
		if ap.OpenEnded() {
			p.End = window.End
		}
		if overlap, ok := serviceday.Intersect(p, window); ok {
			clipped = append(clipped, overlap)
		}
	}
	return clipped
}

// BuildQueries returns one schedule query per (group, period) pair, trip group
// first, periods in input order.
func BuildQueries(cal serviceday.Calendar, groups EntityGroups, periods []serviceday.Period) []transit.ScheduleQuery {
	filters := groups.Filters()
	queries := make([]transit.ScheduleQuery, 0, len(filters)*len(periods))
	for _, f := range filters {
		for _, p := range periods {
			queries = append(queries, transit.ScheduleQuery{
				Filter:  f,
				MinTime: cal.ExtendedTime(p.Start),
				MaxTime: cal.ExtendedTime(p.End),
			})
		}
	}
	return queries
}

// run carries the mutable state of one conversion.
type run struct {
	ref      time.Time
	warnings *WarningAggregator
	stats    Stats
}

// ResolveAffectedSchedules resolves the trips and stops cancelled by alerts on
// the service day of ref. Alerts are committed in order through the merge
// policy. Any schedule source error aborts the resolution.
func (c *Converter) ResolveAffectedSchedules(ctx context.Context, alerts []transit.Alert, ref time.Time) (transit.AffectedScheduleMap, error) {
	return c.resolve(ctx, alerts, &run{ref: ref, warnings: NewWarningAggregator()})
}

func (c *Converter) resolve(ctx context.Context, alerts []transit.Alert, r *run) (transit.AffectedScheduleMap, error) {
	affected := transit.AffectedScheduleMap{}
	for _, alert := range alerts {
		perAlert, err := c.resolveAlert(ctx, alert, r)
		if err != nil {
			return nil, err
		}
		for _, tripID := range perAlert.TripIDs() {
			existing, seen := affected[tripID]
			if seen {
				r.warnings.Add(WarningTripReplaced, tripID)
			}
			affected[tripID] = c.merge(existing, perAlert[tripID])
		}
	}
	return affected, nil
}

func (c *Converter) resolveAlert(ctx context.Context, alert transit.Alert, r *run) (transit.AffectedScheduleMap, error) {
	groups := Classify(alert.InformedEntities)
	if groups.Empty() {
		r.warnings.Add(WarningNoActionableEntities, alert.ID)
		return nil, nil
	}
	periods := ClipToServiceDay(c.calendar, alert.ActivePeriods, r.ref)
	if len(periods) == 0 {
		r.warnings.Add(WarningOutsideServiceDay, alert.ID)
		return nil, nil
	}

	queries := BuildQueries(c.calendar, groups, periods)
	r.stats.Queries += len(queries)

	results := make([][]transit.ScheduleEntry, len(queries))
	p := pool.New().
		WithMaxGoroutines(c.concurrency).
		WithErrors().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	for i, q := range queries {
		p.Go(func(ctx context.Context) error {
			entries, err := c.schedules.FetchSchedules(ctx, q)
			if err != nil {
				return fmt.Errorf("alert %s: schedule query %s: %w", alert.ID, q, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("alert", alert.ID).
		Int("queries", len(queries)).
		Msg("resolved alert schedules")

	perAlert, dropped := groupByTrip(results)
	if dropped > 0 {
		r.warnings.Add(WarningNoTripID, alert.ID)
	}
	if len(perAlert) == 0 {
		r.warnings.Add(WarningNoScheduledStops, alert.ID)
	}
	for _, entries := range results {
		r.stats.ScheduleEntries += len(entries)
	}
	return perAlert, nil
}

// stopKey identifies one stop visit of a trip.
type stopKey struct {
	sequence int
	stopID   string
}

// groupByTrip collects query results by trip in query order, drops stops
// repeated by overlapping periods and orders each trip by stop sequence.
// Entries without a trip id cannot be cancelled and are dropped; their count
// is returned.
func groupByTrip(results [][]transit.ScheduleEntry) (grouped transit.AffectedScheduleMap, dropped int) {
	grouped = transit.AffectedScheduleMap{}
	seen := map[string]map[stopKey]bool{}
	for _, entries := range results {
		for _, e := range entries {
			if e.TripID == "" {
				dropped++
				continue
			}
			if seen[e.TripID] == nil {
				seen[e.TripID] = map[stopKey]bool{}
			}
			key := stopKey{sequence: e.StopSequence, stopID: e.StopID}
			if seen[e.TripID][key] {
				continue
			}
			seen[e.TripID][key] = true
			grouped[e.TripID] = append(grouped[e.TripID], e)
		}
	}
	for _, entries := range grouped {
		transit.SortByStopSequence(entries)
	}
	return grouped, dropped
}
