package formatter

import (
	"errors"
	"fmt"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

// GTFSRealtimeVersion is written into every feed header.
const GTFSRealtimeVersion = "2.0"

// ErrEncoding is wrapped by every serialization failure.
var ErrEncoding = errors.New("feed encoding failed")

// AsFeedMessage projects feed onto a GTFS-RT FeedMessage.
func AsFeedMessage(feed transit.Feed) *gtfs.FeedMessage {
	msg := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String(GTFSRealtimeVersion),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(epoch(feed.Timestamp)),
		},
		Entity: make([]*gtfs.FeedEntity, 0, len(feed.Entities)),
	}
	for _, e := range feed.Entities {
		msg.Entity = append(msg.Entity, feedEntity(e))
	}
	return msg
}

func feedEntity(e transit.CancellationEntity) *gtfs.FeedEntity {
	trip := &gtfs.TripDescriptor{
		TripId:               proto.String(e.TripID),
		StartDate:            proto.String(e.StartDate),
		ScheduleRelationship: gtfs.TripDescriptor_CANCELED.Enum(),
	}
	if e.RouteID != "" {
		trip.RouteId = proto.String(e.RouteID)
	}

	updates := make([]*gtfs.TripUpdate_StopTimeUpdate, 0, len(e.StopTimeUpdates))
	for _, s := range e.StopTimeUpdates {
		updates = append(updates, &gtfs.TripUpdate_StopTimeUpdate{
			StopSequence:         proto.Uint32(uint32(s.StopSequence)),
			StopId:               proto.String(s.StopID),
			ScheduleRelationship: gtfs.TripUpdate_StopTimeUpdate_SKIPPED.Enum(),
		})
	}

	return &gtfs.FeedEntity{
		Id: proto.String(e.ID),
		TripUpdate: &gtfs.TripUpdate{
			Trip:           trip,
			StopTimeUpdate: updates,
			Timestamp:      proto.Uint64(epoch(e.Timestamp)),
		},
	}
}

// EncodeProtobuf serializes feed as a binary GTFS-RT FeedMessage.
func EncodeProtobuf(feed transit.Feed) ([]byte, error) {
	data, err := proto.Marshal(AsFeedMessage(feed))
	if err != nil {
		return nil, fmt.Errorf("%w: protobuf: %v", ErrEncoding, err)
	}
	return data, nil
}

// DecodeProtobuf parses a binary FeedMessage back into a feed. Timestamps
// come back in UTC. Entities that carry no trip update are skipped.
func DecodeProtobuf(data []byte) (transit.Feed, error) {
	var msg gtfs.FeedMessage
	if err := proto.Unmarshal(data, &msg); err != nil {
		return transit.Feed{}, fmt.Errorf("decoding feed message: %w", err)
	}

	feed := transit.Feed{
		Timestamp: fromEpoch(msg.GetHeader().GetTimestamp()),
		Entities:  make([]transit.CancellationEntity, 0, len(msg.GetEntity())),
	}
	for _, ent := range msg.GetEntity() {
		tu := ent.GetTripUpdate()
		if tu == nil {
			continue
		}
		e := transit.CancellationEntity{
			ID:              ent.GetId(),
			TripID:          tu.GetTrip().GetTripId(),
			RouteID:         tu.GetTrip().GetRouteId(),
			StartDate:       tu.GetTrip().GetStartDate(),
			Timestamp:       fromEpoch(tu.GetTimestamp()),
			StopTimeUpdates: make([]transit.SkippedStop, 0, len(tu.GetStopTimeUpdate())),
		}
		for _, stu := range tu.GetStopTimeUpdate() {
			e.StopTimeUpdates = append(e.StopTimeUpdates, transit.SkippedStop{
				StopID:       stu.GetStopId(),
				StopSequence: int(stu.GetStopSequence()),
			})
		}
		feed.Entities = append(feed.Entities, e)
	}
	return feed, nil
}

func epoch(t time.Time) uint64 {
	if t.IsZero() || t.Unix() < 0 {
		return 0
	}
	return uint64(t.Unix())
}

func fromEpoch(sec uint64) time.Time {
	return time.Unix(int64(sec), 0).UTC()
}
