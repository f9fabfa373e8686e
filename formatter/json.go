package formatter

import (
	"encoding/json"
	"fmt"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

// FeedJSON is the JSON rendering of a GTFS-RT FeedMessage. Field names follow
// the GTFS-RT proto definitions and enums are written by name.
type FeedJSON struct {
	Header HeaderJSON   `json:"header"`
	Entity []EntityJSON `json:"entity"`
}

// HeaderJSON is the feed header.
type HeaderJSON struct {
	GtfsRealtimeVersion string `json:"gtfs_realtime_version"`
	Incrementality      string `json:"incrementality"`
	Timestamp           uint64 `json:"timestamp"`
}

// EntityJSON is one cancelled trip.
type EntityJSON struct {
	ID         string         `json:"id"`
	TripUpdate TripUpdateJSON `json:"trip_update"`
}

// TripUpdateJSON carries the cancelled trip and its skipped stops.
type TripUpdateJSON struct {
	Trip           TripDescriptorJSON   `json:"trip"`
	StopTimeUpdate []StopTimeUpdateJSON `json:"stop_time_update"`
	Timestamp      uint64               `json:"timestamp"`
}

// TripDescriptorJSON identifies the trip on its start date.
type TripDescriptorJSON struct {
	TripID               string `json:"trip_id"`
	RouteID              string `json:"route_id,omitempty"`
	StartDate            string `json:"start_date"`
	ScheduleRelationship string `json:"schedule_relationship"`
}

// StopTimeUpdateJSON is one skipped stop.
type StopTimeUpdateJSON struct {
	StopSequence         uint32 `json:"stop_sequence"`
	StopID               string `json:"stop_id"`
	ScheduleRelationship string `json:"schedule_relationship"`
}

// AsJSON projects feed onto its JSON form.
func AsJSON(feed transit.Feed) FeedJSON {
	out := FeedJSON{
		Header: HeaderJSON{
			GtfsRealtimeVersion: GTFSRealtimeVersion,
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.String(),
			Timestamp:           epoch(feed.Timestamp),
		},
		Entity: make([]EntityJSON, 0, len(feed.Entities)),
	}
	for _, e := range feed.Entities {
		tu := TripUpdateJSON{
			Trip: TripDescriptorJSON{
				TripID:               e.TripID,
				RouteID:              e.RouteID,
				StartDate:            e.StartDate,
				ScheduleRelationship: gtfs.TripDescriptor_CANCELED.String(),
			},
			StopTimeUpdate: make([]StopTimeUpdateJSON, 0, len(e.StopTimeUpdates)),
			Timestamp:      epoch(e.Timestamp),
		}
		for _, s := range e.StopTimeUpdates {
			tu.StopTimeUpdate = append(tu.StopTimeUpdate, StopTimeUpdateJSON{
				StopSequence:         uint32(s.StopSequence),
				StopID:               s.StopID,
				ScheduleRelationship: gtfs.TripUpdate_StopTimeUpdate_SKIPPED.String(),
			})
		}
		out.Entity = append(out.Entity, EntityJSON{ID: e.ID, TripUpdate: tu})
	}
	return out
}

// EncodeJSON serializes feed as indented JSON.
func EncodeJSON(feed transit.Feed) ([]byte, error) {
	data, err := json.MarshalIndent(AsJSON(feed), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrEncoding, err)
	}
	return data, nil
}
