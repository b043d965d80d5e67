package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/cache"
	apperrors "github.com/rajasatyajit/grievance-insights/internal/errors"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
	"github.com/rajasatyajit/grievance-insights/internal/pipeline"
)

// HealthChecker is a dependency the readiness probe pings
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler handles HTTP requests for the API
type Handler struct {
	pipeline  *pipeline.Pipeline
	cache     cache.Cache
	database  HealthChecker
	limits    config.AnalysisConfig
	version   string
	buildTime string
	gitCommit string
	startTime time.Time
}

// NewHandler creates a new API handler. A nil cache disables caching.
func NewHandler(p *pipeline.Pipeline, c cache.Cache, limits config.AnalysisConfig, version, buildTime, gitCommit string) *Handler {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &Handler{
		pipeline:  p,
		cache:     c,
		limits:    limits,
		version:   version,
		buildTime: buildTime,
		gitCommit: gitCommit,
		startTime: time.Now(),
	}
}

// WithDatabase adds db to the readiness checks. It is only needed when the
// lexicon is served from Postgres.
func (h *Handler) WithDatabase(db HealthChecker) *Handler {
	h.database = db
	return h
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.NotFound(h.notFoundHandler)

	r.Route("/v1", func(r chi.Router) {
		// Health check endpoints
		r.Get("/health", h.healthHandler)
		r.Get("/health/ready", h.readinessHandler)
		r.Get("/health/live", h.livenessHandler)

		// Analysis endpoints
		r.Post("/analyze/batch", h.analyzeBatchHandler)
		r.Post("/analyze/csv", h.analyzeCSVHandler)
		r.Post("/analyze/single", h.analyzeSingleHandler)
		r.Get("/categories", h.categoriesHandler)
		r.Get("/demo", h.demoHandler)

		// System info
		r.Get("/version", h.versionHandler)
	})

	r.Get("/", h.rootHandler)
	r.Get("/health", h.healthHandler)
}

// rootHandler describes the service
func (h *Handler) rootHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"service": "grievance-insights",
		"version": h.version,
		"endpoints": []string{
			"POST /v1/analyze/batch",
			"POST /v1/analyze/csv",
			"POST /v1/analyze/single",
			"GET /v1/categories",
			"GET /v1/demo",
		},
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// healthHandler provides basic health check
func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   h.version,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// readinessHandler checks if the application is ready to serve traffic
func (h *Handler) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"lexicon": "ok",
		"cache":   "ok",
	}

	statusCode := http.StatusOK

	if h.pipeline == nil || len(h.pipeline.Categories()) == 0 {
		checks["lexicon"] = "error: no lexicon loaded"
		statusCode = http.StatusServiceUnavailable
	}

	if err := h.cache.Health(ctx); err != nil {
		logger.WithContext(ctx).Warn("Cache health check failed", "backend", h.cache.Name(), "error", err)
		checks["cache"] = "error: " + err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	if h.database != nil {
		checks["database"] = "ok"
		if err := h.database.Health(ctx); err != nil {
			logger.WithContext(ctx).Warn("Database health check failed", "error", err)
			checks["database"] = "error: " + err.Error()
			statusCode = http.StatusServiceUnavailable
		}
	}

	response := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	}
	if statusCode != http.StatusOK {
		response["status"] = "not_ready"
		response["message"] = apperrors.ErrServiceUnavailable.Error()
	}

	h.writeJSONResponse(w, statusCode, response)
}

// livenessHandler checks if the application is alive
func (h *Handler) livenessHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// versionHandler returns version information
func (h *Handler) versionHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"version":    h.version,
		"build_time": h.buildTime,
		"git_commit": h.gitCommit,
	}
	if h.pipeline != nil {
		response["lexicon_fingerprint"] = h.pipeline.Lexicon().Fingerprint()
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

func (h *Handler) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.writeErrorResponse(w, r, http.StatusNotFound, apperrors.ErrNotFound.Error())
}

// writeJSONResponse writes a JSON response
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// writeErrorResponse writes a standardized error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	requestID := middleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = r.Header.Get("X-Request-ID")
	}

	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}

	h.writeJSONResponse(w, statusCode, response)
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}
