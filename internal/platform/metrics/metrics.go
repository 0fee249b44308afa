package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weathermap"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "route"})

	// Latency of calls to geocoding, weather, and cache backends.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "call_duration_seconds",
		Help:      "Duration of calls to external services",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"op", "outcome"})

	LookupsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "lookups_started_total",
		Help:      "Lookups entered into the location pipeline, by entry point",
	}, []string{"entry"})

	LookupsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "lookups_finished_total",
		Help:      "Lookups reaching a terminal state",
	}, []string{"state", "message"})

	StaleCompletions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "stale_completions_total",
		Help:      "Completions dropped because a newer lookup had started",
	})

	GeocodeCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "geocode_cache",
		Name:      "hits_total",
		Help:      "Forward geocode lookups served from cache",
	})

	GeocodeCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "geocode_cache",
		Name:      "misses_total",
		Help:      "Forward geocode lookups that went to the provider",
	})
)

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
