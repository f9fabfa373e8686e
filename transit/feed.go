package transit

import "time"

// Feed is the set of cancellations published in one run.
type Feed struct {
	Timestamp time.Time
	Entities  []CancellationEntity
}

// CancellationEntity marks one trip as cancelled on StartDate and every listed
// stop as skipped.
type CancellationEntity struct {
	ID              string
	TripID          string
	RouteID         string
	StartDate       string // YYYYMMDD
	Timestamp       time.Time
	StopTimeUpdates []SkippedStop
}

// SkippedStop is a stop the cancelled trip will not serve.
type SkippedStop struct {
	StopID       string
	StopSequence int
}
