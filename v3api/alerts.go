package v3api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

// FetchAlerts lists the alerts active now with any of the given effects.
// With no effects every active alert is returned.
func (c *Client) FetchAlerts(ctx context.Context, effects ...string) ([]transit.Alert, error) {
	params := url.Values{}
	params.Set("filter[activity]", "ALL")
	params.Set("filter[datetime]", "NOW")
	if len(effects) > 0 {
		params.Set("filter[effect]", strings.Join(effects, ","))
	}
	target := c.endpoint("alerts", params)

	resources, err := fetchAll[alertAttributes](ctx, c, target)
	if err != nil {
		return nil, err
	}

	alerts := make([]transit.Alert, 0, len(resources))
	for _, r := range resources {
		alert, err := toAlert(r)
		if err != nil {
			return nil, &transit.FetchError{URL: target, Err: err}
		}
		alerts = append(alerts, alert)
	}

	c.logger.Info().Int("alerts", len(alerts)).Msg("fetched alerts")
	return alerts, nil
}

func toAlert(r resource[alertAttributes]) (transit.Alert, error) {
	alert := transit.Alert{
		ID:               r.ID,
		Effect:           r.Attributes.Effect,
		Header:           r.Attributes.Header,
		ActivePeriods:    make([]transit.ActivePeriod, 0, len(r.Attributes.ActivePeriod)),
		InformedEntities: make([]transit.InformedEntity, 0, len(r.Attributes.InformedEntity)),
	}
	for _, p := range r.Attributes.ActivePeriod {
		start, err := parseInstant(p.Start)
		if err != nil {
			return transit.Alert{}, fmt.Errorf("alert %s: active period start: %w", r.ID, err)
		}
		end, err := parseInstant(p.End)
		if err != nil {
			return transit.Alert{}, fmt.Errorf("alert %s: active period end: %w", r.ID, err)
		}
		alert.ActivePeriods = append(alert.ActivePeriods, transit.ActivePeriod{Start: start, End: end})
	}
	for _, e := range r.Attributes.InformedEntity {
		alert.InformedEntities = append(alert.InformedEntities, transit.InformedEntity{
			Trip:  e.Trip,
			Route: e.Route,
			Stop:  e.Stop,
		})
	}
	return alert, nil
}

// parseInstant parses an RFC 3339 timestamp. Null or empty yields the zero time.
func parseInstant(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, *s)
}
