package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Valuation outcomes used as the "outcome" label.
const (
	OutcomeOK         = "ok"
	OutcomeDegenerate = "degenerate"
	OutcomeError      = "error"
)

// Manager manages all Prometheus metrics for the valuation service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Valuation metrics
	valuations       *prometheus.CounterVec
	valuationLatency prometheus.Histogram
	aavMultiplier    prometheus.Histogram
	yearsDelta       prometheus.Histogram
	cohortSize       prometheus.Histogram
	batchSize        prometheus.Histogram
	referenceRecords prometheus.Gauge
	subjectRecords   prometheus.Gauge
	profileFallbacks prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerJobs              prometheus.Counter
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
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
		namespace:        "fairdeal",
		subsystem:        "valuation",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

//nolint:funlen // one place to read every metric definition
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.valuations = auto.NewCounterVec(
		m.counterOpts("valuations_total", "Total number of valuations by outcome"),
		[]string{"outcome"},
	)
	m.valuationLatency = auto.NewHistogram(m.histogramOpts(
		"latency_milliseconds", "Valuation latency in milliseconds", m.histogramBuckets))
	m.aavMultiplier = auto.NewHistogram(m.histogramOpts(
		"aav_multiplier", "Applied annual value multiplier",
		[]float64{0.8, 0.85, 0.9, 0.95, 1, 1.05, 1.1, 1.15, 1.2, 1.25, 1.3}))
	m.yearsDelta = auto.NewHistogram(m.histogramOpts(
		"years_delta", "Recommended minus baseline contract years",
		[]float64{-5, -3, -2, -1, -0.5, 0, 0.5, 1}))
	m.cohortSize = auto.NewHistogram(m.histogramOpts(
		"cohort_size", "Active comparables per valuation",
		[]float64{0, 1, 2, 3, 5, 8, 13, 21}))
	m.batchSize = auto.NewHistogram(m.histogramOpts(
		"batch_size", "Requests per batch valuation",
		[]float64{1, 2, 5, 10, 25, 50, 100, 250}))
	m.referenceRecords = auto.NewGauge(m.gaugeOpts(
		"reference_contracts", "Reference contracts loaded"))
	m.subjectRecords = auto.NewGauge(m.gaugeOpts(
		"subjects", "Subject players loaded"))
	m.profileFallbacks = auto.NewCounter(m.counterOpts(
		"profile_fallbacks_total", "Weight profile lookups that fell back to the default"))

	m.workerCount = auto.NewGauge(m.gaugeOpts(
		"worker_count", "Configured batch workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts(
		"worker_active_count", "Batch workers currently valuing a job"))
	m.workerJobs = auto.NewCounter(m.counterOpts(
		"worker_jobs_total", "Jobs processed by batch workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"worker_processing_latency_milliseconds", "Per-job worker latency in milliseconds", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts(
		"worker_errors_total", "Jobs that finished with an error"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", Name: "memory_bytes",
		Help: "Heap bytes allocated", ConstLabels: m.constLabels,
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", Name: "goroutines",
		Help: "Number of goroutines", ConstLabels: m.constLabels,
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "system", Name: "gc_pause_milliseconds",
		Help: "Average GC pause in milliseconds", Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
	})
}

// RecordValuation counts a valuation by outcome.
func RecordValuation(outcome string) {
	globalManager.valuations.WithLabelValues(outcome).Inc()
}

// RecordValuationLatency records valuation latency in milliseconds.
func RecordValuationLatency(latencyMs float64) {
	globalManager.valuationLatency.Observe(latencyMs)
}

// RecordAAVMultiplier records the applied multiplier.
func RecordAAVMultiplier(multiplier float64) {
	globalManager.aavMultiplier.Observe(multiplier)
}

// RecordYearsDelta records fair minus baseline years.
func RecordYearsDelta(delta float64) {
	globalManager.yearsDelta.Observe(delta)
}

// RecordCohortSize records the number of active comparables.
func RecordCohortSize(size int) {
	globalManager.cohortSize.Observe(float64(size))
}

// RecordBatchSize records the number of requests in a batch.
func RecordBatchSize(size int) {
	globalManager.batchSize.Observe(float64(size))
}

// UpdateReferenceContracts sets the loaded reference contract count.
func UpdateReferenceContracts(count int) {
	globalManager.referenceRecords.Set(float64(count))
}

// UpdateSubjects sets the loaded subject count.
func UpdateSubjects(count int) {
	globalManager.subjectRecords.Set(float64(count))
}

// RecordProfileFallback counts a profile lookup that used the default row.
func RecordProfileFallback() {
	globalManager.profileFallbacks.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// IncWorkerActive marks a worker busy.
func IncWorkerActive() {
	globalManager.workerActiveCount.Inc()
}

// DecWorkerActive marks a worker idle.
func DecWorkerActive() {
	globalManager.workerActiveCount.Dec()
}

// RecordWorkerJob counts a processed job and its latency.
func RecordWorkerJob(latencyMs float64) {
	globalManager.workerJobs.Inc()
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
