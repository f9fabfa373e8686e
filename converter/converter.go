package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/serviceday"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

// AlertSource lists the currently active alerts with the given effects.
type AlertSource interface {
	FetchAlerts(ctx context.Context, effects ...string) ([]transit.Alert, error)
}

// ScheduleSource lists the scheduled stops matching a query.
type ScheduleSource interface {
	FetchSchedules(ctx context.Context, query transit.ScheduleQuery) ([]transit.ScheduleEntry, error)
}

// Converter turns active cancellation alerts into a feed of cancelled trips.
type Converter struct {
	alerts      AlertSource
	schedules   ScheduleSource
	calendar    serviceday.Calendar
	merge       MergePolicy
	concurrency int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewConverter creates a new converter instance
func NewConverter(alerts AlertSource, schedules ScheduleSource, opts ConverterOptions) *Converter {
	c := &Converter{
		alerts:      alerts,
		schedules:   schedules,
		calendar:    serviceday.NewCalendar(opts.Location),
		merge:       opts.MergePolicy,
		concurrency: opts.QueryConcurrency,
		now:         opts.Now,
		logger:      opts.Logger,
	}
	if c.merge == nil {
		c.merge = PreferLatest
	}
	if c.concurrency < 1 {
		c.concurrency = DefaultQueryConcurrency
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Calendar returns the service-day calendar of the agency timezone.
func (c *Converter) Calendar() serviceday.Calendar { return c.calendar }

// BuildFeed fetches the active alerts and converts them at the current instant.
func (c *Converter) BuildFeed(ctx context.Context) (transit.Feed, Stats, error) {
	ref := c.calendar.Local(c.now())
	alerts, err := c.alerts.FetchAlerts(ctx, transit.CancellationEffects()...)
	if err != nil {
		return transit.Feed{}, Stats{}, fmt.Errorf("fetching alerts: %w", err)
	}
	return c.Convert(ctx, alerts, ref)
}

// Convert builds the feed for alerts as seen at ref. Alerts whose effect does
// not remove service are skipped.
func (c *Converter) Convert(ctx context.Context, alerts []transit.Alert, ref time.Time) (transit.Feed, Stats, error) {
	r := &run{ref: ref, warnings: NewWarningAggregator()}
	r.stats.Alerts = len(alerts)

	relevant := make([]transit.Alert, 0, len(alerts))
	for _, a := range alerts {
		if !a.IsCancellation() {
			r.warnings.Add(WarningIgnoredEffect, a.ID)
			continue
		}
		relevant = append(relevant, a)
	}
	r.stats.CancellationAlerts = len(relevant)

	serviceDay := c.calendar.ServiceDay(ref)
	logger := c.logger.With().Str("service_day", serviceDay.ISO()).Logger()
	logger.Info().
		Int("alerts", len(alerts)).
		Int("cancellation_alerts", len(relevant)).
		Msg("resolving cancellations")

	affected, err := c.resolve(ctx, relevant, r)
	if err != nil {
		return transit.Feed{}, r.stats, err
	}

	entities := BuildCancellations(c.calendar, affected, ref)
	r.stats.CancelledTrips = len(entities)
	for _, e := range entities {
		r.stats.SkippedStops += len(e.StopTimeUpdates)
	}

	r.warnings.LogAll(logger, serviceDay.ISO())
	logger.Info().
		Int("queries", r.stats.Queries).
		Int("trips", r.stats.CancelledTrips).
		Int("skipped_stops", r.stats.SkippedStops).
		Msg("built cancellation feed")

	return transit.Feed{Timestamp: ref, Entities: entities}, r.stats, nil
}
