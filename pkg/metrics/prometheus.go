// Package metrics provides Prometheus metrics for the profile dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Upstream API Metrics
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	// Session Metrics
	logins         *prometheus.CounterVec
	activeSessions prometheus.Gauge

	// Cache Metrics
	cacheLookups *prometheus.CounterVec
	cacheErrors  *prometheus.CounterVec

	// Chart Metrics
	chartRenders       *prometheus.CounterVec
	degenerateGeometry *prometheus.CounterVec
	malformedInput     prometheus.Counter
	skippedSamples     prometheus.Counter

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "profile",
		subsystem:        "dashboard",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.upstreamRequests = m.counterVec("upstream_requests_total",
		"Requests sent to the platform API by operation and outcome", "operation", "outcome")
	m.upstreamLatency = m.histogramVec("upstream_latency_milliseconds",
		"Platform API latency in milliseconds", "operation")

	m.logins = m.counterVec("logins_total", "Sign-in attempts by outcome", "outcome")
	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Sessions currently held by the session store",
	})

	m.cacheLookups = m.counterVec("cache_lookups_total", "Snapshot cache lookups by result", "result")
	m.cacheErrors = m.counterVec("cache_errors_total", "Snapshot cache failures by operation", "operation")

	m.chartRenders = m.counterVec("chart_renders_total", "Charts laid out by chart name", "chart")
	m.degenerateGeometry = m.counterVec("chart_degenerate_total",
		"Charts that hit a degenerate geometry branch", "chart", "reason")
	m.malformedInput = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "skills_malformed_input_total",
		Help:      "Skill payloads that were not list-shaped",
	})
	m.skippedSamples = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "skills_skipped_samples_total",
		Help:      "Skill entries skipped because they were not well-formed",
	})

	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current memory usage in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordUpstreamRequest counts a platform API call by operation and outcome.
func RecordUpstreamRequest(operation, outcome string) {
	globalManager.upstreamRequests.WithLabelValues(operation, outcome).Inc()
}

// RecordUpstreamLatency records platform API latency in milliseconds.
func RecordUpstreamLatency(operation string, latencyMs float64) {
	globalManager.upstreamLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordLogin counts a sign-in attempt.
func RecordLogin(outcome string) {
	globalManager.logins.WithLabelValues(outcome).Inc()
}

// UpdateActiveSessions sets the number of live sessions.
func UpdateActiveSessions(count int64) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordCacheLookup counts a snapshot cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.cacheLookups.WithLabelValues(result).Inc()
}

// RecordCacheError counts a failed cache operation (get or set).
func RecordCacheError(operation string) {
	globalManager.cacheErrors.WithLabelValues(operation).Inc()
}

// RecordChartRender counts a chart layout.
func RecordChartRender(chart string) {
	globalManager.chartRenders.WithLabelValues(chart).Inc()
}

// RecordDegenerateGeometry counts a chart that took a degenerate branch.
func RecordDegenerateGeometry(chart, reason string) {
	globalManager.degenerateGeometry.WithLabelValues(chart, reason).Inc()
}

// RecordMalformedInput counts a skill payload that was not a list.
func RecordMalformedInput() {
	globalManager.malformedInput.Inc()
}

// RecordSkippedSamples adds n skipped skill entries.
func RecordSkippedSamples(n int) {
	if n > 0 {
		globalManager.skippedSamples.Add(float64(n))
	}
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
