package gtfsrt

import (
	"context"
	"net/http"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

// FeedConfig configures an AlertFeed.
type FeedConfig struct {
	// Timeout bounds the download. Ignored when HTTPClient is set.
	Timeout    time.Duration
	HTTPClient *http.Client
	// Now returns the instant alerts must be active at. Nil selects time.Now.
	Now    func() time.Time
	Logger zerolog.Logger
}

// AlertFeed lists alerts from a GTFS-RT ServiceAlerts feed.
type AlertFeed struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
	logger     zerolog.Logger
}

// NewAlertFeed creates an alert source reading the feed at url.
func NewAlertFeed(url string, cfg FeedConfig) *AlertFeed {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &AlertFeed{url: url, httpClient: httpClient, now: now, logger: cfg.Logger}
}

// FetchAlerts returns the alerts of the feed that are active now and have one
// of effects. With no effects every active alert is returned.
func (f *AlertFeed) FetchAlerts(ctx context.Context, effects ...string) ([]transit.Alert, error) {
	fm, err := fetchFeed(ctx, f.httpClient, f.url)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(effects))
	for _, e := range effects {
		wanted[e] = true
	}
	now := f.now()

	alerts := make([]transit.Alert, 0, len(fm.GetEntity()))
	skipped := 0
	for _, e := range fm.GetEntity() {
		if e.GetAlert() == nil || e.GetIsDeleted() {
			continue
		}
		alert := toAlert(e.GetId(), e.GetAlert())
		if len(wanted) > 0 && !wanted[alert.Effect] {
			skipped++
			continue
		}
		if !activeAt(alert, now) {
			skipped++
			continue
		}
		alerts = append(alerts, alert)
	}

	f.logger.Info().
		Str("url", f.url).
		Int("alerts", len(alerts)).
		Int("skipped", skipped).
		Msg("fetched alerts feed")
	return alerts, nil
}

func toAlert(id string, a *gtfs.Alert) transit.Alert {
	alert := transit.Alert{
		ID:               id,
		Effect:           a.GetEffect().String(),
		Header:           translatedText(a.GetHeaderText()),
		ActivePeriods:    make([]transit.ActivePeriod, 0, len(a.GetActivePeriod())),
		InformedEntities: make([]transit.InformedEntity, 0, len(a.GetInformedEntity())),
	}
	for _, ap := range a.GetActivePeriod() {
		alert.ActivePeriods = append(alert.ActivePeriods, transit.ActivePeriod{
			Start: fromEpoch(ap.GetStart()),
			End:   fromEpoch(ap.GetEnd()),
		})
	}
	// no active_period means active for as long as the alert is in the feed
	if len(alert.ActivePeriods) == 0 {
		alert.ActivePeriods = append(alert.ActivePeriods, transit.ActivePeriod{})
	}
	for _, ie := range a.GetInformedEntity() {
		alert.InformedEntities = append(alert.InformedEntities, transit.InformedEntity{
			Trip:  ie.GetTrip().GetTripId(),
			Route: ie.GetRouteId(),
			Stop:  ie.GetStopId(),
		})
	}
	return alert
}

// activeAt reports whether t falls in one of the alert's periods. A zero
// start is unbounded.
func activeAt(a transit.Alert, t time.Time) bool {
	for _, p := range a.ActivePeriods {
		if !p.Start.IsZero() && t.Before(p.Start) {
			continue
		}
		if !p.OpenEnded() && t.After(p.End) {
			continue
		}
		return true
	}
	return false
}

// translatedText picks the English or untagged translation, else the first.
func translatedText(ts *gtfs.TranslatedString) string {
	var first string
	for _, tr := range ts.GetTranslation() {
		switch tr.GetLanguage() {
		case "", "en":
			return tr.GetText()
		}
		if first == "" {
			first = tr.GetText()
		}
	}
	return first
}

func fromEpoch(sec uint64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(int64(sec), 0)
}
