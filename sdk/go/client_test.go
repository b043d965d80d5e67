package sdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/api"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
	"github.com/rajasatyajit/grievance-insights/internal/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger.Init("error", "text")

	limits := config.AnalysisConfig{WorkerCount: 2, ParallelThreshold: 32, TopIssues: 5, MinTokenLength: 3, MaxBatchSize: 50, MaxUploadBytes: 1 << 20}
	h := api.NewHandler(pipeline.New(nil, limits), nil, limits, "test", "now", "abc")
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_AnalyzeBatch(t *testing.T) {
	c := New(newTestServer(t).URL, "sdk-test")

	s, err := c.AnalyzeBatch(context.Background(), []string{"Wifi is down again", "Thanks for the great food"}, true)
	require.NoError(t, err)

	assert.Equal(t, 2, s.TotalComplaints)
	assert.Len(t, s.ProcessedComplaints, 2)
	assert.NotEmpty(t, s.BatchID)
	assert.Equal(t, "Connectivity", s.ProcessedComplaints[0].Category)
	assert.Equal(t, "Positive", s.ProcessedComplaints[1].Sentiment)
}

func TestClient_AnalyzeBatch_Empty(t *testing.T) {
	c := New(newTestServer(t).URL, "")

	_, err := c.AnalyzeBatch(context.Background(), nil, false)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "nothing to analyze")
}

func TestClient_AnalyzeCSV(t *testing.T) {
	c := New(newTestServer(t).URL, "")

	s, err := c.AnalyzeCSV(context.Background(), "week.csv", strings.NewReader("note\nToilet is dirty\nLoud party\n"), "note", false)
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalComplaints)
	assert.Empty(t, s.ProcessedComplaints)

	_, err = c.AnalyzeCSV(context.Background(), "week.xlsx", strings.NewReader("x"), "", false)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnsupportedMediaType, apiErr.StatusCode)
}

func TestClient_AnalyzeSingle(t *testing.T) {
	c := New(newTestServer(t).URL, "")

	out, err := c.AnalyzeSingle(context.Background(), "My bag was stolen, this is urgent")
	require.NoError(t, err)
	assert.Equal(t, "Security", out.Category)
	assert.Equal(t, "Negative", out.Sentiment)
	assert.Equal(t, "High", out.Urgency)
	assert.Equal(t, "my bag was stolen this is urgent", out.CleanText)
}

func TestClient_CategoriesAndHealth(t *testing.T) {
	c := New(newTestServer(t).URL, "")

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Security", cats[0])
	assert.Equal(t, "Other", cats[len(cats)-1])

	assert.NoError(t, c.Health(context.Background()))
}

func TestClient_Headers(t *testing.T) {
	var clientType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientType = r.Header.Get("X-Client-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"categories":["A","Other"]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "dashboard").Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dashboard", clientType)
}

func TestNew_DefaultBaseURL(t *testing.T) {
	c := New("", "")
	assert.Equal(t, "http://localhost:8000", c.BaseURL)
	assert.NotNil(t, c.HTTP)
}
