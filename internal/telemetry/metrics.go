package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sample_data_service"

var (
	// HTTPRequestsTotal counts requests by matched route, method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
		[]string{"route", "method"},
	)

	// BatchesGeneratedTotal counts sample batches served.
	BatchesGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_generated_total",
			Help:      "Total number of sample batches generated",
		},
	)

	// BatchUniqueValues observes how many distinct values each batch held.
	BatchUniqueValues = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_unique_values",
			Help:      "Number of distinct values per generated batch",
			Buckets:   prometheus.LinearBuckets(1, 1, 15),
		},
	)

	// ResponseEncodeFailuresTotal counts envelopes that could not be serialized.
	ResponseEncodeFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_encode_failures_total",
			Help:      "Total number of response envelopes that failed to serialize",
		},
	)

	telemetryExporterFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_export_failures_total",
			Help:      "Number of telemetry exporter initialization failures by exporter protocol",
		},
		[]string{"exporter"},
	)
)

// RecordHTTPRequest records one completed request.
func RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordBatch records a generated batch with the given number of distinct values.
func RecordBatch(uniqueValues int) {
	BatchesGeneratedTotal.Inc()
	BatchUniqueValues.Observe(float64(uniqueValues))
}

// RecordEncodeFailure records a response that failed to serialize.
func RecordEncodeFailure() {
	ResponseEncodeFailuresTotal.Inc()
}

func recordExporterFailure(exporter string) {
	if exporter == "" {
		exporter = "unknown"
	}
	telemetryExporterFailures.WithLabelValues(exporter).Inc()
}

// TelemetryExporterFailures exposes the failure counter for tests and dashboards.
func TelemetryExporterFailures() *prometheus.CounterVec {
	return telemetryExporterFailures
}
