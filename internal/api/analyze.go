package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rajasatyajit/grievance-insights/internal/cache"
	apperrors "github.com/rajasatyajit/grievance-insights/internal/errors"
	"github.com/rajasatyajit/grievance-insights/internal/ingest"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
	"github.com/rajasatyajit/grievance-insights/internal/metrics"
	"github.com/rajasatyajit/grievance-insights/internal/models"
	"github.com/rajasatyajit/grievance-insights/internal/pipeline"
	"github.com/rajasatyajit/grievance-insights/internal/sample"
)

// BatchRequest is the body of POST /v1/analyze/batch
type BatchRequest struct {
	Complaints []models.RawComplaint `json:"complaints"`
}

// SingleRequest is the body of POST /v1/analyze/single
type SingleRequest struct {
	RawText string `json:"raw_text"`
}

// SingleResponse is the classification of one complaint
type SingleResponse struct {
	Complaint string           `json:"complaint"`
	Category  models.Category  `json:"category"`
	Sentiment models.Sentiment `json:"sentiment"`
	Urgency   models.Urgency   `json:"urgency"`
	CleanText string           `json:"clean_text"`
}

// analyzeBatchHandler handles POST /v1/analyze/batch
func (h *Handler) analyzeBatchHandler(w http.ResponseWriter, r *http.Request) {
	details, err := parseDetails(r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req BatchRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}

	if len(req.Complaints) == 0 {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "nothing to analyze: complaints list is empty")
		return
	}
	if err := h.checkBatchSize(len(req.Complaints)); err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}

	h.summarize(w, r, req.Complaints, details)
}

// analyzeCSVHandler handles POST /v1/analyze/csv with a multipart "file" field
func (h *Handler) analyzeCSVHandler(w http.ResponseWriter, r *http.Request) {
	details, err := parseDetails(r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes())
	if err := r.ParseMultipartForm(h.maxUploadBytes()); err != nil {
		if !tooLarge(err) {
			err = fmt.Errorf("%w: multipart form required: %w", apperrors.ErrInvalidInput, err)
		}
		h.writeAnalysisError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, `form field "file" is required`)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		h.writeAnalysisError(w, r, fmt.Errorf("%w: only .csv uploads are accepted", apperrors.ErrUnsupportedMedia))
		return
	}

	result, err := ingest.ReadCSV(file, r.FormValue("column"))
	if err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}
	if result.FirstColumnFallback {
		logger.WithContext(r.Context()).Warn("Requested column missing; using first column",
			"requested", r.FormValue("column"),
			"used", result.Column,
			"filename", header.Filename,
		)
	}
	w.Header().Set("X-CSV-Column", result.Column)

	if err := h.checkBatchSize(len(result.Complaints)); err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}

	h.summarize(w, r, result.Complaints, details)
}

// analyzeSingleHandler handles POST /v1/analyze/single
func (h *Handler) analyzeSingleHandler(w http.ResponseWriter, r *http.Request) {
	var req SingleRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}

	record, ok := h.pipeline.Analyze(req.RawText)
	if !ok {
		h.writeAnalysisError(w, r, apperrors.ErrEmptyBatch)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, SingleResponse{
		Complaint: record.RawText,
		Category:  record.Category,
		Sentiment: record.Sentiment,
		Urgency:   record.Urgency,
		CleanText: record.CleanText,
	})
}

// categoriesHandler handles GET /v1/categories
func (h *Handler) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"categories": h.pipeline.Categories(),
	})
}

// demoHandler handles GET /v1/demo with the built-in sample batch
func (h *Handler) demoHandler(w http.ResponseWriter, r *http.Request) {
	details, err := parseDetails(r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.summarize(w, r, sample.Complaints(), details)
}

// summarize serves a batch from the cache or runs it through the pipeline
func (h *Handler) summarize(w http.ResponseWriter, r *http.Request, items []models.RawComplaint, details bool) {
	batchID := uuid.NewString()
	w.Header().Set("X-Batch-ID", batchID)

	ctx := logger.WithBatchID(r.Context(), batchID)
	log := logger.WithContext(ctx)
	r = r.WithContext(ctx)

	key := cache.Key(h.pipeline.CacheScope(), details, items)
	if summary, ok := h.lookup(ctx, key); ok {
		log.Debug("Serving cached summary", "items", len(items))
		w.Header().Set("X-Cache", "HIT")
		h.writeJSONResponse(w, http.StatusOK, summary)
		return
	}

	summary, err := h.pipeline.ProcessComplaints(ctx, items, pipeline.Options{IncludeDetails: details})
	if err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}

	if err := h.cache.Set(ctx, key, summary); err != nil {
		log.Warn("Failed to cache summary", "backend", h.cache.Name(), "error", err)
	}

	w.Header().Set("X-Cache", "MISS")
	h.writeJSONResponse(w, http.StatusOK, summary)
}

// lookup reads the cache. Cache failures degrade to a miss.
func (h *Handler) lookup(ctx context.Context, key string) (*models.DashboardSummary, bool) {
	if _, disabled := h.cache.(cache.NoopCache); disabled {
		return nil, false
	}

	summary, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		logger.WithContext(ctx).Warn("Cache lookup failed", "backend", h.cache.Name(), "error", err)
		ok = false
	}
	metrics.RecordCacheLookup(ok)
	return summary, ok
}

// decodeJSON reads a JSON body bounded by the upload limit
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes())
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: invalid JSON body: %w", apperrors.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) checkBatchSize(n int) error {
	if h.limits.MaxBatchSize > 0 && n > h.limits.MaxBatchSize {
		return fmt.Errorf("%w: batch of %d complaints exceeds the maximum of %d",
			apperrors.ErrInvalidInput, n, h.limits.MaxBatchSize)
	}
	return nil
}

func (h *Handler) maxUploadBytes() int64 {
	if h.limits.MaxUploadBytes > 0 {
		return h.limits.MaxUploadBytes
	}
	return 10 << 20
}

// parseDetails reads the details query flag, true when absent
func parseDetails(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("details")
	if raw == "" {
		return true, nil
	}
	details, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid details flag: %s", raw)
	}
	return details, nil
}

// writeAnalysisError maps pipeline and ingest errors onto HTTP statuses
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge)
}

func (h *Handler) writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ingestErr apperrors.IngestError
		maxErr    *http.MaxBytesError
	)

	switch {
	case errors.Is(err, apperrors.ErrEmptyBatch):
		h.writeErrorResponse(w, r, http.StatusBadRequest, "nothing to analyze")
	case errors.As(err, &maxErr):
		h.writeErrorResponse(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
	case errors.Is(err, multipart.ErrMessageTooLarge):
		h.writeErrorResponse(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", h.maxUploadBytes()))
	case errors.As(err, &ingestErr):
		h.writeErrorResponse(w, r, http.StatusBadRequest, ingestErr.Message)
	case errors.Is(err, apperrors.ErrUnsupportedMedia):
		h.writeErrorResponse(w, r, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, apperrors.ErrInvalidInput):
		h.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.writeErrorResponse(w, r, http.StatusServiceUnavailable, "analysis timed out")
	default:
		logger.WithContext(r.Context()).Error("Analysis failed", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
