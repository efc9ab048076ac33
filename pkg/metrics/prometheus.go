// Package metrics provides Prometheus metrics for the fieldcheck
// inspection service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the fieldcheck service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Inspection workflow metrics
	findingsRecorded    *prometheus.CounterVec
	validationFailures  prometheus.Counter
	submissionsAccepted prometheus.Counter
	submissionsRejected *prometheus.CounterVec

	// Aggregate state gauges
	assignmentsTotal    prometheus.Gauge
	assignmentsByStatus *prometheus.GaugeVec
	indicatorsPending   prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fieldcheck",
		subsystem:        "inspection",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.findingsRecorded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "findings_recorded_total",
			Help:      "Total number of findings committed, by outcome",
		},
		[]string{"outcome"},
	)

	m.validationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "finding_validation_failures_total",
		Help:      "Total number of finding payloads rejected by validation",
	})

	m.submissionsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_submissions_total",
		Help:      "Total number of accepted report submissions",
	})

	m.submissionsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "report_submissions_rejected_total",
			Help:      "Total number of rejected report submissions, by reason",
		},
		[]string{"reason"},
	)

	m.assignmentsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignments_total",
		Help:      "Number of assignments tracked in the store",
	})

	m.assignmentsByStatus = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "assignments_by_status",
			Help:      "Number of assignments per aggregate status",
		},
		[]string{"status"},
	)

	m.indicatorsPending = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "indicators_pending",
		Help:      "Number of indicators still awaiting a finding",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the custom Prometheus registry for serving /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordFindingRecorded increments the committed-findings counter for one
// outcome.
func RecordFindingRecorded(outcome string) {
	if globalManager.enabled {
		globalManager.findingsRecorded.WithLabelValues(outcome).Inc()
	}
}

// RecordValidationFailure increments the rejected-payloads counter.
func RecordValidationFailure() {
	if globalManager.enabled {
		globalManager.validationFailures.Inc()
	}
}

// RecordSubmissionAccepted increments the accepted submissions counter.
func RecordSubmissionAccepted() {
	if globalManager.enabled {
		globalManager.submissionsAccepted.Inc()
	}
}

// RecordSubmissionRejected increments the rejected submissions counter for
// one reason ("incomplete", "unverifiable", "closed").
func RecordSubmissionRejected(reason string) {
	if globalManager.enabled {
		globalManager.submissionsRejected.WithLabelValues(reason).Inc()
	}
}

// UpdateAssignmentsTotal sets the assignment count gauge.
func UpdateAssignmentsTotal(count int) {
	if globalManager.enabled {
		globalManager.assignmentsTotal.Set(float64(count))
	}
}

// UpdateAssignmentsByStatus sets the per-status assignment gauge.
func UpdateAssignmentsByStatus(status string, count int) {
	if globalManager.enabled {
		globalManager.assignmentsByStatus.WithLabelValues(status).Set(float64(count))
	}
}

// UpdateIndicatorsPending sets the pending-indicators gauge.
func UpdateIndicatorsPending(count int) {
	if globalManager.enabled {
		globalManager.indicatorsPending.Set(float64(count))
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// UpdateSystemMemoryUsage sets the allocated-memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}
