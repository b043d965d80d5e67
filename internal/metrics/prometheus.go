package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grievance"

// PrometheusMetrics records metrics on a dedicated Prometheus registry
type PrometheusMetrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	batches       *prometheus.CounterVec
	batchSize     prometheus.Histogram
	batchDuration *prometheus.HistogramVec
	classified    *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	dbConnsActive prometheus.Gauge
	dbQueries     *prometheus.CounterVec
}

// NewPrometheus creates and registers the Prometheus collectors
func NewPrometheus() *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests, labeled by method, route and status code.",
		}, []string{"method", "endpoint", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "batches_total",
			Help:      "Total analysis batches, labeled by result.",
		}, []string{"result"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "batch_size",
			Help:      "Number of non-blank complaints per analyzed batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "batch_duration_seconds",
			Help:      "Time to classify and aggregate one batch.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"result"}),
		classified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "classifications_total",
			Help:      "Labels assigned to complaints, by axis and label.",
		}, []string{"axis", "label"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Summary cache lookups, labeled hit or miss.",
		}, []string{"result"}),
		dbConnsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "connections_active",
			Help:      "Acquired connections in the database pool.",
		}),
		dbQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "queries_total",
			Help:      "Database operations, labeled by operation and status.",
		}, []string{"operation", "status"}),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.batches,
		m.batchSize,
		m.batchDuration,
		m.classified,
		m.cacheLookups,
		m.dbConnsActive,
		m.dbQueries,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

func (m *PrometheusMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordBatch(result string, size int, duration time.Duration) {
	m.batches.WithLabelValues(result).Inc()
	m.batchDuration.WithLabelValues(result).Observe(duration.Seconds())
	if size > 0 {
		m.batchSize.Observe(float64(size))
	}
}

func (m *PrometheusMetrics) RecordClassification(axis, label string) {
	m.classified.WithLabelValues(axis, label).Inc()
}

func (m *PrometheusMetrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *PrometheusMetrics) SetDBConnectionsActive(count float64) {
	m.dbConnsActive.Set(count)
}

func (m *PrometheusMetrics) RecordDBQuery(operation, status string) {
	m.dbQueries.WithLabelValues(operation, status).Inc()
}

func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
