// Package gtfsrt reads service alerts from a GTFS-Realtime ServiceAlerts
// protobuf feed.
//
// AlertFeed is an alternative alert source to the JSON:API client for
// agencies that publish alerts only as GTFS-RT:
//
//	feed := gtfsrt.NewAlertFeed("https://cdn.mbta.com/realtime/Alerts.pb", gtfsrt.FeedConfig{Logger: logger})
//	alerts, err := feed.FetchAlerts(ctx, transit.CancellationEffects()...)
//
// The feed carries every alert, so filtering by effect and by activity at
// the current instant happens client-side.
package gtfsrt
