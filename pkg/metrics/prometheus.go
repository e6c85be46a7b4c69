// Package metrics provides Prometheus metrics for the RPA console.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets are in milliseconds; backend calls that drive a browser can
// take tens of seconds.
var latencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000} //nolint:gochecknoglobals // constant bucket layout

// Manager manages all Prometheus metrics for the console.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Client facade
	apiRequests        *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	apiErrors          *prometheus.CounterVec
	bypassResponses    *prometheus.CounterVec

	// Development proxy
	proxyRequests *prometheus.CounterVec
	proxyDuration prometheus.Histogram
	proxyErrors   prometheus.Counter

	// Console HTTP server
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// Navigation and probe
	routeHits   *prometheus.CounterVec
	probeChecks *prometheus.CounterVec

	// System
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

// NewManager creates a new metrics manager. Without WithPrometheusRegistry
// the metrics go to prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rpa",
		subsystem:        "console",
		histogramBuckets: latencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Default returns the process-wide manager registered on GetRegistry().
func Default() *Manager {
	return globalManager
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all metric definitions
	auto := promauto.With(m.registry)

	m.apiRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_requests_total",
		Help:      "Backend API calls issued by the client facade",
	}, []string{"endpoint", "method", "status_code"})

	m.apiRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_request_duration_milliseconds",
		Help:      "Backend API call duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.apiErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_errors_total",
		Help:      "Backend API failures by kind (transport, status, decode, encode)",
	}, []string{"endpoint", "kind"})

	m.bypassResponses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bypass_responses_total",
		Help:      "Responses returned by endpoints that skip status checking",
	}, []string{"endpoint", "status_code"})

	m.proxyRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "proxy_requests_total",
		Help:      "Requests forwarded by the development proxy",
	}, []string{"method", "status_code"})

	m.proxyDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "proxy_duration_milliseconds",
		Help:      "Round trip through the development proxy in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.proxyErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "proxy_errors_total",
		Help:      "Upstream failures seen by the development proxy",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Requests served by the console by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Console request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "Console error responses by endpoint",
	}, []string{"endpoint", "method", "error_type"})

	m.routeHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "route_hits_total",
		Help:      "Navigation route views served",
	}, []string{"route"})

	m.probeChecks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "probe_checks_total",
		Help:      "Probe checks by name and outcome",
	}, []string{"check", "outcome"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordAPIRequest counts one facade call and observes its duration.
func (m *Manager) RecordAPIRequest(endpoint, method, statusCode string, durationMs float64) {
	m.apiRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.apiRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordAPIError counts a facade failure of the given kind.
func (m *Manager) RecordAPIError(endpoint, kind string) {
	m.apiErrors.WithLabelValues(endpoint, kind).Inc()
}

// RecordBypassResponse counts a response that was returned without a status check.
func (m *Manager) RecordBypassResponse(endpoint, statusCode string) {
	m.bypassResponses.WithLabelValues(endpoint, statusCode).Inc()
}

// RecordProxyRequest counts a forwarded request and observes its duration.
func (m *Manager) RecordProxyRequest(method, statusCode string, durationMs float64) {
	m.proxyRequests.WithLabelValues(method, statusCode).Inc()
	m.proxyDuration.Observe(durationMs)
}

// RecordProxyError increments the upstream failure counter.
func (m *Manager) RecordProxyError() {
	m.proxyErrors.Inc()
}

// RecordHTTPRequest records a request served by the console.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error response with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordRouteHit counts a navigation view served for route.
func (m *Manager) RecordRouteHit(route string) {
	m.routeHits.WithLabelValues(route).Inc()
}

// RecordProbeCheck counts a probe check outcome.
func (m *Manager) RecordProbeCheck(check, outcome string) {
	m.probeChecks.WithLabelValues(check, outcome).Inc()
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
