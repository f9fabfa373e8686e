// Package converter turns service alerts into cancelled trips.
//
// A run takes the active alerts, keeps those whose effect is NO_SERVICE or
// CANCELLATION, and for each one:
//   - classifies its informed entities into a trip group and a route group
//     (entities naming a stop are ignored)
//   - clips its active periods to the current service day
//   - queries the schedule source once per group and clipped period
//   - groups the returned stops by trip, ordered by stop sequence
//
// Per-alert results are merged into a single trip map in alert order using a
// MergePolicy, and every trip becomes a CancellationEntity dated on the
// service day of the run.
//
// # Usage
//
//	client, err := v3api.NewClient(v3api.Config{BaseURL: cfg.API.BaseURL, APIKey: cfg.API.Key})
//	if err != nil {
//	    return err
//	}
//
//	conv := converter.NewConverter(client, client, converter.ConverterOptions{
//	    Location:    loc,
//	    MergePolicy: converter.PreferLatest,
//	    Logger:      logger,
//	})
//
//	feed, stats, err := conv.BuildFeed(ctx)
//	if err != nil {
//	    return err
//	}
//
// # Warnings
//
// Conditions that do not stop a run (alerts with nothing to cancel, alerts
// outside the service day, trips named by several alerts) are collected by a
// WarningAggregator and logged once per type at the end of the run.
package converter
