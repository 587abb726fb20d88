// Package metrics exposes Prometheus instrumentation for the scrape
// pipeline, served on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ScrapeAttempts counts Scrape invocations that actually ran (skipped
	// in-flight calls are not attempts).
	ScrapeAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gradewatch_scrape_attempts_total",
			Help: "Total number of report scrape attempts",
		},
	)

	// ScrapeFailures counts scrapes that ended in a fetch or extraction error.
	ScrapeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gradewatch_scrape_failures_total",
			Help: "Total number of failed report scrapes",
		},
	)

	// ScrapeDuration is the wall time of the last completed scrape.
	ScrapeDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gradewatch_scrape_duration_seconds",
			Help: "Duration of the last successful scrape",
		},
	)

	// RecordCount is the number of server records in the current set.
	RecordCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gradewatch_records",
			Help: "Number of server records extracted by the last scrape",
		},
	)
)

func init() {
	prometheus.MustRegister(ScrapeAttempts)
	prometheus.MustRegister(ScrapeFailures)
	prometheus.MustRegister(ScrapeDuration)
	prometheus.MustRegister(RecordCount)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
