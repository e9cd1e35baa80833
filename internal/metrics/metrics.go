// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loginsight"

var (
	// IngestionsTotal counts load attempts by source (startup, upload) and
	// outcome (loaded, fallback, rejected).
	IngestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Dataset load attempts by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	DatasetRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the current dataset snapshot.",
		},
	)

	DatasetFallback = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_fallback",
			Help:      "1 when the current snapshot is synthetic fallback data.",
		},
	)

	LookupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "continent_lookup_failures_total",
			Help:      "Rows whose country could not be mapped to a continent.",
		},
	)

	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent filtering and aggregating one view.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"view"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordIngestion updates the ingestion counter and snapshot gauges.
func RecordIngestion(source, outcome string, records int, fallback bool) {
	IngestionsTotal.WithLabelValues(source, outcome).Inc()
	if outcome == "rejected" {
		return
	}
	DatasetRecords.Set(float64(records))
	if fallback {
		DatasetFallback.Set(1)
	} else {
		DatasetFallback.Set(0)
	}
}

// ObserveReport records how long building one view took.
func ObserveReport(view string, start time.Time) {
	ReportDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
