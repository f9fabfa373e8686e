package converter

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultQueryConcurrency bounds the schedule queries of one alert that run
// at the same time.
const DefaultQueryConcurrency = 4

// ConverterOptions contains everything the converter needs besides its data
// sources. It has no dependency on config files.
type ConverterOptions struct {
	// Location is the agency timezone. Nil selects America/New_York.
	Location *time.Location

	// MergePolicy decides how a trip named by several alerts is merged.
	// Nil selects PreferLatest.
	MergePolicy MergePolicy

	// QueryConcurrency bounds the parallel schedule queries of a single alert.
	// Values below 1 select DefaultQueryConcurrency.
	QueryConcurrency int

	// Now returns the reference instant of a run. Nil selects time.Now.
	Now func() time.Time

	Logger zerolog.Logger
}

// Stats summarises one run.
type Stats struct {
	Alerts             int
	CancellationAlerts int
	Queries            int
	ScheduleEntries    int
	CancelledTrips     int
	SkippedStops       int
}
