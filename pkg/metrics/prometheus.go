// Package metrics provides Prometheus metrics for the skill search service.
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

// Manager manages all Prometheus metrics for the skill search service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - the search pipeline itself
	searchesTotal     prometheus.Counter
	searchDuration    prometheus.Histogram
	searchErrors      *prometheus.CounterVec
	matchedSkills     prometheus.Histogram
	candidatesRanked  prometheus.Histogram
	staleSkillDrops   prometheus.Counter
	corruptRatingDrops prometheus.Counter

	// Gateway Metrics - external embedding and vector index calls
	embeddingLatency   prometheus.Histogram
	vectorQueryLatency prometheus.Histogram
	embedCacheHits     prometheus.Counter
	embedCacheMisses   prometheus.Counter
	embedCacheSize     prometheus.Gauge
	gatewayRetries     prometheus.Counter

	// Snapshot Metrics - corpus load and swap
	snapshotLoadDuration prometheus.Histogram
	snapshotSwaps        prometheus.Counter
	snapshotLastUnix     prometheus.Gauge
	totalUsers           prometheus.Gauge
	totalSkills          prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "skillsearch",
		subsystem:        "search",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.searchesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "searches_total",
		Help:      "Total number of search requests processed",
	})

	m.searchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "search_duration_milliseconds",
		Help:      "End-to-end search pipeline duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.searchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "search_errors_total",
			Help:      "Total number of failed searches by pipeline stage",
		},
		[]string{"stage"},
	)

	m.matchedSkills = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matched_skills_per_search",
		Help:      "Number of catalog skills matched per search",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
	})

	m.candidatesRanked = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_ranked_per_search",
		Help:      "Number of users ranked per search",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	})

	m.staleSkillDrops = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_skill_drops_total",
		Help:      "Vector hits dropped because the skill id is absent from the catalog",
	})

	m.corruptRatingDrops = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "corrupt_rating_drops_total",
		Help:      "Skill contributions dropped because the stored rating is invalid",
	})

	// Gateway Metrics
	m.embeddingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embedding_latency_milliseconds",
		Help:      "Latency of query embedding calls in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.vectorQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vector_query_latency_milliseconds",
		Help:      "Latency of vector index queries in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.embedCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embed_cache_hits_total",
		Help:      "Query embeddings served from the in-memory cache",
	})

	m.embedCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embed_cache_misses_total",
		Help:      "Query embeddings that required an external call",
	})

	m.embedCacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embed_cache_size",
		Help:      "Current number of query embeddings held in the cache",
	})

	m.gatewayRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gateway_retries_total",
		Help:      "Retries of external gateway calls after transient failures",
	})

	// Snapshot Metrics
	m.snapshotLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_load_duration_milliseconds",
		Help:      "Corpus snapshot load and index build duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotSwaps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_swaps_total",
		Help:      "Total number of snapshot swaps since process start",
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_unix",
		Help:      "Unix timestamp of the last snapshot swap",
	})

	m.totalUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_users",
		Help:      "Total number of users in the current snapshot",
	})

	m.totalSkills = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_skills",
		Help:      "Total number of catalog skills in the current snapshot",
	})

	// HTTP Performance Metrics
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

	// Enhanced Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of operations that resulted in errors",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
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

// RecordSearch increments the processed searches counter.
func RecordSearch() {
	globalManager.searchesTotal.Inc()
}

// RecordSearchDuration records the end-to-end pipeline duration in milliseconds.
func RecordSearchDuration(durationMs float64) {
	globalManager.searchDuration.Observe(durationMs)
}

// RecordSearchError increments the failed searches counter for a stage.
func RecordSearchError(stage string) {
	globalManager.searchErrors.WithLabelValues(stage).Inc()
}

// RecordMatchedSkills records how many catalog skills a search matched.
func RecordMatchedSkills(count int) {
	globalManager.matchedSkills.Observe(float64(count))
}

// RecordCandidatesRanked records how many users a search ranked.
func RecordCandidatesRanked(count int) {
	globalManager.candidatesRanked.Observe(float64(count))
}

// RecordStaleSkillDrop increments the stale skill drop counter.
func RecordStaleSkillDrop() {
	globalManager.staleSkillDrops.Inc()
}

// RecordCorruptRatingDrop increments the corrupt rating drop counter.
func RecordCorruptRatingDrop() {
	globalManager.corruptRatingDrops.Inc()
}

// RecordEmbeddingLatency records embedding call latency in milliseconds.
func RecordEmbeddingLatency(latencyMs float64) {
	globalManager.embeddingLatency.Observe(latencyMs)
}

// RecordVectorQueryLatency records vector index query latency in milliseconds.
func RecordVectorQueryLatency(latencyMs float64) {
	globalManager.vectorQueryLatency.Observe(latencyMs)
}

// RecordEmbedCacheHit increments the embedding cache hit counter.
func RecordEmbedCacheHit() {
	globalManager.embedCacheHits.Inc()
}

// RecordEmbedCacheMiss increments the embedding cache miss counter.
func RecordEmbedCacheMiss() {
	globalManager.embedCacheMisses.Inc()
}

// UpdateEmbedCacheSize sets the current embedding cache entry count.
func UpdateEmbedCacheSize(size int64) {
	globalManager.embedCacheSize.Set(float64(size))
}

// RecordGatewayRetry increments the gateway retry counter.
func RecordGatewayRetry() {
	globalManager.gatewayRetries.Inc()
}

// RecordSnapshotLoadDuration records snapshot load duration in milliseconds.
func RecordSnapshotLoadDuration(durationMs float64) {
	globalManager.snapshotLoadDuration.Observe(durationMs)
}

// RecordSnapshotSwap increments the snapshot swap counter.
func RecordSnapshotSwap() {
	globalManager.snapshotSwaps.Inc()
}

// UpdateSnapshotLastUnix sets the timestamp of the last snapshot swap.
func UpdateSnapshotLastUnix(ts int64) {
	globalManager.snapshotLastUnix.Set(float64(ts))
}

// UpdateTotalUsers sets the user count of the current snapshot.
func UpdateTotalUsers(count int) {
	globalManager.totalUsers.Set(float64(count))
}

// UpdateTotalSkills sets the catalog size of the current snapshot.
func UpdateTotalSkills(count int) {
	globalManager.totalSkills.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
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
