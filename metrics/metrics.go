package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/converter"
)

// Run failure stages.
const (
	StageFetch   = "fetch"
	StageEncode  = "encode"
	StagePublish = "publish"
)

// Collector holds the metrics of one run. It owns its registry so runs and
// tests never share state.
type Collector struct {
	reg *prometheus.Registry

	Alerts             prometheus.Gauge
	CancellationAlerts prometheus.Gauge
	ScheduleQueries    prometheus.Gauge
	CancelledTrips     prometheus.Gauge
	SkippedStops       prometheus.Gauge

	RunDuration    prometheus.Gauge // seconds
	LastSuccess    prometheus.Gauge // unix seconds
	RunFailures    *prometheus.CounterVec
	PublishedBytes *prometheus.GaugeVec
}

// NewCollector creates a collector with every metric registered.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Alerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cancellations_alerts",
			Help: "Active alerts fetched in the last run.",
		}),
		CancellationAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cancellations_cancellation_alerts",
			Help: "Fetched alerts with a NO_SERVICE or CANCELLATION effect.",
		}),
		ScheduleQueries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cancellations_schedule_queries",
			Help: "Schedule queries issued in the last run.",
		}),
		CancelledTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cancellations_cancelled_trips",
			Help: "Trips marked CANCELED in the published feed.",
		}),
		SkippedStops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cancellations_skipped_stops",
			Help: "Stops marked SKIPPED in the published feed.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cancellations_run_duration_seconds",
			Help: "Wall time of the last successful run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cancellations_last_success_timestamp_seconds",
			Help: "Unix time the feed was last published.",
		}),
		RunFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cancellations_run_failures_total",
			Help: "Failed runs by stage.",
		}, []string{"stage"}),
		PublishedBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cancellations_published_bytes",
			Help: "Size of each published file.",
		}, []string{"file"}),
	}

	reg.MustRegister(
		c.Alerts,
		c.CancellationAlerts,
		c.ScheduleQueries,
		c.CancelledTrips,
		c.SkippedStops,
		c.RunDuration,
		c.LastSuccess,
		c.RunFailures,
		c.PublishedBytes,
	)
	return c
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// ObserveStats records the counts of a conversion.
func (c *Collector) ObserveStats(stats converter.Stats) {
	c.Alerts.Set(float64(stats.Alerts))
	c.CancellationAlerts.Set(float64(stats.CancellationAlerts))
	c.ScheduleQueries.Set(float64(stats.Queries))
	c.CancelledTrips.Set(float64(stats.CancelledTrips))
	c.SkippedStops.Set(float64(stats.SkippedStops))
}

// ObservePublished records a file written by the run.
func (c *Collector) ObservePublished(name string, size int) {
	c.PublishedBytes.WithLabelValues(name).Set(float64(size))
}

// ObserveSuccess marks the run finished at end after taking duration.
func (c *Collector) ObserveSuccess(end time.Time, duration time.Duration) {
	c.RunDuration.Set(duration.Seconds())
	c.LastSuccess.Set(float64(end.Unix()))
}

// ObserveFailure counts a run that failed at stage.
func (c *Collector) ObserveFailure(stage string) {
	c.RunFailures.WithLabelValues(stage).Inc()
}

// Push sends every metric to a Prometheus Pushgateway under job.
func (c *Collector) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(c.reg).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
