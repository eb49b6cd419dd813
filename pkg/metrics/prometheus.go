// Package metrics provides Prometheus metrics for the levelboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Dataset loading
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	datasetLevels       *prometheus.GaugeVec
	datasetProfiles     prometheus.Gauge
	malformedLevels     *prometheus.CounterVec
	datasetWarnings     *prometheus.CounterVec

	// Snapshot state
	creatorsTotal        prometheus.Gauge
	snapshotLastUnix     prometheus.Gauge
	snapshotCount        prometheus.Counter
	snapshotBuildLatency prometheus.Histogram

	// Reload pipeline
	reloadRequests  *prometheus.CounterVec
	reloadQueueSize prometheus.Gauge
	reloadErrors    prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "levelboard",
		subsystem:        "catalog",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_loads_total",
		Help:        "Dataset load attempts by outcome",
		ConstLabels: constLabels,
	}, []string{"status"})

	m.datasetLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_duration_milliseconds",
		Help:        "Time to fetch and decode all feeds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.datasetLevels = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "levels",
		Help:        "Accepted levels in the current snapshot by category",
		ConstLabels: constLabels,
	}, []string{"category"})

	m.datasetProfiles = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "profiles",
		Help:        "Creator profiles in the current snapshot",
		ConstLabels: constLabels,
	})

	m.malformedLevels = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "malformed_levels_total",
		Help:        "Level records excluded from aggregation",
		ConstLabels: constLabels,
	}, []string{"category", "reason"})

	m.datasetWarnings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_warnings_total",
		Help:        "Data-integrity warnings on retained level records",
		ConstLabels: constLabels,
	}, []string{"category", "reason"})

	m.creatorsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "creators",
		Help:        "Creators in the current snapshot",
		ConstLabels: constLabels,
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_last_unix",
		Help:        "Unix timestamp of the last snapshot publish",
		ConstLabels: constLabels,
	})

	m.snapshotCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_count_total",
		Help:        "Snapshots published",
		ConstLabels: constLabels,
	})

	m.snapshotBuildLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_build_duration_milliseconds",
		Help:        "Aggregation plus ranking time",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.reloadRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reload_requests_total",
		Help:        "Reload requests by trigger and outcome",
		ConstLabels: constLabels,
	}, []string{"trigger", "outcome"})

	m.reloadQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reload_queue_size",
		Help:        "Pending reload requests",
		ConstLabels: constLabels,
	})

	m.reloadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reload_errors_total",
		Help:        "Reloads that failed and kept the previous snapshot",
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "HTTP error responses by endpoint and error type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: constLabels,
	})
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often periodic gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func record(f func(m *Manager)) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	f(globalManager)
}

// RecordDatasetLoad counts a load attempt; status is "success" or "error".
func RecordDatasetLoad(status string, durationMs float64) {
	record(func(m *Manager) {
		m.datasetLoads.WithLabelValues(status).Inc()
		m.datasetLoadDuration.Observe(durationMs)
	})
}

// UpdateLevels sets the accepted level count for a category.
func UpdateLevels(category string, count int) {
	record(func(m *Manager) { m.datasetLevels.WithLabelValues(category).Set(float64(count)) })
}

// UpdateProfiles sets the profile count.
func UpdateProfiles(count int) {
	record(func(m *Manager) { m.datasetProfiles.Set(float64(count)) })
}

// RecordMalformedLevel counts a level excluded from aggregation.
func RecordMalformedLevel(category, reason string) {
	record(func(m *Manager) { m.malformedLevels.WithLabelValues(category, reason).Inc() })
}

// RecordDatasetWarning counts a warning on a retained level.
func RecordDatasetWarning(category, reason string) {
	record(func(m *Manager) { m.datasetWarnings.WithLabelValues(category, reason).Inc() })
}

// UpdateCreators sets the creator count of the current snapshot.
func UpdateCreators(count int) {
	record(func(m *Manager) { m.creatorsTotal.Set(float64(count)) })
}

// RecordSnapshotPublished marks a snapshot publish and its build time.
func RecordSnapshotPublished(at time.Time, buildMs float64) {
	record(func(m *Manager) {
		m.snapshotCount.Inc()
		m.snapshotLastUnix.Set(float64(at.Unix()))
		m.snapshotBuildLatency.Observe(buildMs)
	})
}

// RecordReloadRequest counts a reload request; outcome is "queued" or "coalesced"/"rejected".
func RecordReloadRequest(trigger, outcome string) {
	record(func(m *Manager) { m.reloadRequests.WithLabelValues(trigger, outcome).Inc() })
}

// UpdateReloadQueueSize sets the pending reload request gauge.
func UpdateReloadQueueSize(size int) {
	record(func(m *Manager) { m.reloadQueueSize.Set(float64(size)) })
}

// RecordReloadError counts a failed reload.
func RecordReloadError() {
	record(func(m *Manager) { m.reloadErrors.Inc() })
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	record(func(m *Manager) { m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc() })
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	record(func(m *Manager) {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	})
}

// RecordErrorByEndpoint records an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	record(func(m *Manager) { m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc() })
}

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	record(func(m *Manager) { m.systemMemoryUsage.Set(float64(bytes)) })
}

// UpdateSystemGoroutineCount updates goroutine count.
func UpdateSystemGoroutineCount(count int) {
	record(func(m *Manager) { m.systemGoroutineCount.Set(float64(count)) })
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	record(func(m *Manager) { m.systemGCPauseTime.Observe(pauseMs) })
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
