package metrics

import (
	"net/http"
	"time"
)

// Metrics interface for dependency injection
type Metrics interface {
	RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration)
	RecordBatch(result string, size int, duration time.Duration)
	RecordClassification(axis, label string)
	RecordCacheLookup(hit bool)
	SetDBConnectionsActive(count float64)
	RecordDBQuery(operation, status string)
	Handler() http.Handler
}

// NoOpMetrics provides a no-op implementation
type NoOpMetrics struct{}

func (m *NoOpMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
}
func (m *NoOpMetrics) RecordBatch(result string, size int, duration time.Duration) {}
func (m *NoOpMetrics) RecordClassification(axis, label string)                     {}
func (m *NoOpMetrics) RecordCacheLookup(hit bool)                                  {}
func (m *NoOpMetrics) SetDBConnectionsActive(count float64)                        {}
func (m *NoOpMetrics) RecordDBQuery(operation, status string)                      {}
func (m *NoOpMetrics) Handler() http.Handler                                       { return http.NotFoundHandler() }

// Global metrics instance
var globalMetrics Metrics = &NoOpMetrics{}

// Init installs the Prometheus-backed metrics
func Init() {
	globalMetrics = NewPrometheus()
}

// Handler returns the metrics handler
func Handler() http.Handler {
	return globalMetrics.Handler()
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	globalMetrics.RecordHTTPRequest(method, endpoint, statusCode, duration)
}

// RecordBatch records one batch analysis run
func RecordBatch(result string, size int, duration time.Duration) {
	globalMetrics.RecordBatch(result, size, duration)
}

// RecordClassification counts one label assignment on an axis
func RecordClassification(axis, label string) {
	globalMetrics.RecordClassification(axis, label)
}

// RecordCacheLookup records a summary cache hit or miss
func RecordCacheLookup(hit bool) {
	globalMetrics.RecordCacheLookup(hit)
}

// SetDBConnectionsActive sets the number of active database connections
func SetDBConnectionsActive(count float64) {
	globalMetrics.SetDBConnectionsActive(count)
}

// RecordDBQuery records database query metrics
func RecordDBQuery(operation, status string) {
	globalMetrics.RecordDBQuery(operation, status)
}
