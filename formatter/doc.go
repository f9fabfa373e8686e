// Package formatter assembles a cancellation feed into GTFS-Realtime and
// encodes it.
//
// Two forms are produced from the same transit.Feed:
//   - AsFeedMessage / EncodeProtobuf: the binary GTFS-RT FeedMessage
//     consumers read (TripUpdates.pb)
//   - AsJSON / EncodeJSON: an indented JSON rendering of the same message
//     with GTFS-RT field names and enum names, for debugging (TripUpdates.json)
//
// Every trip is marked CANCELED and every stop SKIPPED. The header is always
// version 2.0 with FULL_DATASET incrementality.
//
// Example:
//
//	pb, err := formatter.EncodeProtobuf(feed)
//	if err != nil {
//	    return err
//	}
//	js, err := formatter.EncodeJSON(feed)
//
// DecodeProtobuf reads a published feed back into a transit.Feed.
package formatter
