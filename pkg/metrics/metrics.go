package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PipelineRunsTotal   *prometheus.CounterVec
	PipelineItemsTotal  *prometheus.CounterVec
	EventsInsertedTotal prometheus.Counter
	FetchDuration       prometheus.Histogram
	ExtractionDuration  prometheus.Histogram
	ListingsQueued      prometheus.Gauge
)

var initOnce sync.Once

// Init registers all collectors with the default registry. Safe to call more
// than once (test binaries share one registry).
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline invocations.",
		},
		[]string{"outcome"}, // outcome: completed, empty, error
	)

	PipelineItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_items_total",
			Help: "Total number of listings attempted by the pipeline.",
		},
		[]string{"status"}, // status: completed, error, skipped
	)

	EventsInsertedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_inserted_total",
			Help: "Total number of events written to the event store.",
		},
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fetch_duration_seconds",
			Help:    "Duration of content fetch calls.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
	)

	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Duration of extraction service calls.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
	)

	ListingsQueued = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "listings_queued",
			Help: "Current number of listings eligible for processing.",
		},
	)
}
