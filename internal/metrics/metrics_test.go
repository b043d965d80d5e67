package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Ensure NoOpMetrics methods do not panic and global functions delegate without error
func TestNoOpMetricsAndDelegates(t *testing.T) {
	globalMetrics = &NoOpMetrics{}

	m := &NoOpMetrics{}
	m.RecordHTTPRequest("GET", "/x", 200, time.Millisecond)
	m.RecordBatch("success", 3, time.Millisecond)
	m.RecordClassification("category", "Food")
	m.RecordCacheLookup(true)
	m.SetDBConnectionsActive(1)
	m.RecordDBQuery("exec", "ok")

	RecordHTTPRequest("GET", "/x", 200, time.Millisecond)
	RecordBatch("empty", 0, time.Millisecond)
	RecordClassification("urgency", "High")
	RecordCacheLookup(false)
	SetDBConnectionsActive(2)
	RecordDBQuery("query", "ok")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected no-op handler to 404, got %d", rec.Code)
	}
}

func TestPrometheusMetrics_Counters(t *testing.T) {
	m := NewPrometheus()

	m.RecordBatch("success", 10, 5*time.Millisecond)
	m.RecordBatch("success", 2, time.Millisecond)
	m.RecordBatch("empty_batch", 0, time.Millisecond)
	m.RecordClassification("sentiment", "Negative")
	m.RecordClassification("sentiment", "Negative")
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)
	m.SetDBConnectionsActive(4)
	m.RecordHTTPRequest("POST", "/v1/analyze/batch", 200, time.Millisecond)

	if got := testutil.ToFloat64(m.batches.WithLabelValues("success")); got != 2 {
		t.Errorf("success batches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.batches.WithLabelValues("empty_batch")); got != 1 {
		t.Errorf("empty batches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.classified.WithLabelValues("sentiment", "Negative")); got != 2 {
		t.Errorf("negative classifications = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.dbConnsActive); got != 4 {
		t.Errorf("db connections = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/v1/analyze/batch", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}
}

func TestPrometheusMetrics_Handler(t *testing.T) {
	Init()
	defer func() { globalMetrics = &NoOpMetrics{} }()

	RecordBatch("success", 1, time.Millisecond)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `grievance_analysis_batches_total{result="success"} 1`) {
		t.Errorf("scrape output missing batch counter:\n%s", body)
	}
}
