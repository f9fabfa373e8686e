package v3api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

// FetchSchedules lists the scheduled stops of the trips or routes selected by
// query between its minimum and maximum times. A filter other than
// transit.TripFilter or transit.RouteFilter is a programming error and panics.
func (c *Client) FetchSchedules(ctx context.Context, query transit.ScheduleQuery) ([]transit.ScheduleEntry, error) {
	params := url.Values{}
	switch f := query.Filter.(type) {
	case transit.TripFilter:
		params.Set("filter[trip]", strings.Join(f.IDs, ","))
	case transit.RouteFilter:
		params.Set("filter[route]", strings.Join(f.IDs, ","))
	default:
		panic(fmt.Sprintf("v3api: unsupported schedule filter %T", query.Filter))
	}
	if query.MinTime != "" {
		params.Set("filter[min_time]", query.MinTime)
	}
	if query.MaxTime != "" {
		params.Set("filter[max_time]", query.MaxTime)
	}

	resources, err := fetchAll[scheduleAttributes](ctx, c, c.endpoint("schedules", params))
	if err != nil {
		return nil, err
	}

	entries := make([]transit.ScheduleEntry, 0, len(resources))
	for _, r := range resources {
		entries = append(entries, transit.ScheduleEntry{
			TripID:       r.related("trip"),
			RouteID:      r.related("route"),
			StopID:       r.related("stop"),
			StopSequence: r.Attributes.StopSequence,
		})
	}

	c.logger.Debug().
		Stringer("query", query).
		Int("entries", len(entries)).
		Msg("fetched schedules")
	return entries, nil
}
