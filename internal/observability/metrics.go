// Package observability exposes run metrics for a reconstruction run.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// readHeaderTimeout bounds slow-header clients on the metrics listener.
const readHeaderTimeout = 5 * time.Second

// Metrics holds the counters for one reconstruction run. Each instance owns
// an independent registry so repeated runs never collide on collector
// registration.
type Metrics struct {
	registry *prometheus.Registry

	FilesScanned   prometheus.Counter
	FilesSkipped   prometheus.Counter
	ScoresParsed   prometheus.Counter
	BatchesTotal   prometheus.Counter
	BatchesFailed  prometheus.Counter
	OracleDuration prometheus.Histogram
}

// NewMetrics creates and registers the run metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	metrics := &Metrics{
		registry: registry,
		FilesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rankhist_files_scanned_total",
			Help: "Score log files inspected during the scan.",
		}),
		FilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rankhist_files_skipped_total",
			Help: "Score log files skipped for malformed name, date, or score.",
		}),
		ScoresParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rankhist_scores_parsed_total",
			Help: "Scores successfully extracted from log files.",
		}),
		BatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rankhist_batches_total",
			Help: "Oracle batches dispatched.",
		}),
		BatchesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rankhist_batches_failed_total",
			Help: "Oracle batches dropped after transport or logical failure.",
		}),
		OracleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rankhist_oracle_call_duration_seconds",
			Help:    "Wall time of one oracle round trip.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}

	registry.MustRegister(
		metrics.FilesScanned,
		metrics.FilesSkipped,
		metrics.ScoresParsed,
		metrics.BatchesTotal,
		metrics.BatchesFailed,
		metrics.OracleDuration,
	)

	return metrics
}

// Handler returns the /metrics scrape handler for this run's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts a metrics listener on addr in the background. The listener
// lives for the remainder of the process; a reconstruction run is
// single-shot, so there is nothing to shut down gracefully.
func (m *Metrics) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: readHeaderTimeout}

	go func() {
		_ = server.ListenAndServe()
	}()
}
