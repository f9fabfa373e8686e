// Package metrics collects Prometheus metrics for a feed run. At the end of a
// run they are pushed to a Pushgateway when one is configured.
package metrics
