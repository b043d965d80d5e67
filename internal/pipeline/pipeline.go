// Package pipeline runs batches of raw complaints through normalization,
// classification and aggregation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/aggregator"
	"github.com/rajasatyajit/grievance-insights/internal/classifier"
	apperrors "github.com/rajasatyajit/grievance-insights/internal/errors"
	"github.com/rajasatyajit/grievance-insights/internal/lexicon"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
	"github.com/rajasatyajit/grievance-insights/internal/metrics"
	"github.com/rajasatyajit/grievance-insights/internal/models"
	"github.com/rajasatyajit/grievance-insights/pkg/utils"
)

const (
	defaultWorkerCount       = 4
	defaultParallelThreshold = 32
	// chunksPerWorker keeps workers busy when record costs are uneven
	chunksPerWorker = 4
)

// Options control a single ProcessComplaints call
type Options struct {
	IncludeDetails bool
}

// Pipeline coordinates classification fan-out and the final aggregation.
// It holds only immutable state and may be shared across requests.
type Pipeline struct {
	lex        *lexicon.Set
	classifier *classifier.Classifier
	aggregator *aggregator.Aggregator
	workers    int
	threshold  int
	scope      string
}

// New creates a pipeline over lex. A nil lex selects the built-in lexicon.
func New(lex *lexicon.Set, cfg config.AnalysisConfig) *Pipeline {
	if lex == nil {
		lex = lexicon.Default()
	}
	p := &Pipeline{
		lex:        lex,
		classifier: classifier.New(lex),
		aggregator: aggregator.New(lex, aggregator.Options{
			TopIssues:      cfg.TopIssues,
			MinTokenLength: cfg.MinTokenLength,
		}),
		workers:   cfg.WorkerCount,
		threshold: cfg.ParallelThreshold,
	}
	if p.workers <= 0 {
		p.workers = defaultWorkerCount
	}
	if p.threshold <= 0 {
		p.threshold = defaultParallelThreshold
	}
	opts := p.aggregator.Options()
	p.scope = fmt.Sprintf("%s;top=%d;min=%d", lex.Fingerprint(), opts.TopIssues, opts.MinTokenLength)

	logger.Info("Pipeline initialized",
		"workers", p.workers,
		"parallel_threshold", p.threshold,
		"categories", len(lex.Categories()),
	)

	return p
}

// Lexicon returns the lexicon set the pipeline classifies with
func (p *Pipeline) Lexicon() *lexicon.Set { return p.lex }

// CacheScope identifies every setting that shapes a summary: the lexicon
// fingerprint and the recurring-issue options. Worker settings are left out
// because output does not depend on them.
func (p *Pipeline) CacheScope() string { return p.scope }

// Categories lists the category labels in priority order, Other last
func (p *Pipeline) Categories() []string {
	cats := p.lex.Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

// Analyze normalizes and classifies one text. ok is false when the text is
// blank after normalization.
func (p *Pipeline) Analyze(raw string) (record models.ComplaintRecord, ok bool) {
	clean := utils.Normalize(raw)
	if clean == "" {
		return models.ComplaintRecord{}, false
	}
	record = models.ComplaintRecord{RawText: raw, CleanText: clean}
	p.classifier.Classify(&record)
	return record, true
}

// ProcessComplaints classifies every non-blank item and aggregates the result.
// It returns apperrors.ErrEmptyBatch when nothing survives blank filtering,
// and the context error if ctx ends first. A summary is never partial.
func (p *Pipeline) ProcessComplaints(ctx context.Context, items []models.RawComplaint, opts Options) (*models.DashboardSummary, error) {
	start := time.Now()
	log := logger.WithContext(ctx)

	if err := ctx.Err(); err != nil {
		metrics.RecordBatch("cancelled", len(items), time.Since(start))
		return nil, err
	}

	records := make([]models.ComplaintRecord, 0, len(items))
	for _, item := range items {
		clean := utils.Normalize(item.RawText)
		if clean == "" {
			continue
		}
		records = append(records, models.ComplaintRecord{RawText: item.RawText, CleanText: clean})
	}

	if len(records) == 0 {
		metrics.RecordBatch("empty", len(items), time.Since(start))
		log.Debug("Batch had no analyzable complaints", "received", len(items))
		return nil, apperrors.ErrEmptyBatch
	}

	parallel := len(records) >= p.threshold && p.workers > 1
	if parallel {
		if err := p.classifyParallel(ctx, records); err != nil {
			metrics.RecordBatch("cancelled", len(records), time.Since(start))
			return nil, err
		}
	} else {
		for i := range records {
			p.classifier.Classify(&records[i])
		}
	}

	for _, r := range records {
		metrics.RecordClassification("category", string(r.Category))
		metrics.RecordClassification("sentiment", string(r.Sentiment))
		metrics.RecordClassification("urgency", string(r.Urgency))
	}

	summary := p.aggregator.Aggregate(records)
	if opts.IncludeDetails {
		summary.ProcessedComplaints = records
	}

	duration := time.Since(start)
	metrics.RecordBatch("success", len(records), duration)
	log.Info("Batch analyzed",
		"received", len(items),
		"processed", len(records),
		"parallel", parallel,
		"duration_ms", duration.Milliseconds(),
	)

	return &summary, nil
}

// classifyParallel fans records out over a bounded errgroup. Each worker
// writes only its own index range, so order is preserved without locking.
func (p *Pipeline) classifyParallel(ctx context.Context, records []models.ComplaintRecord) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	chunk := len(records) / (p.workers * chunksPerWorker)
	if chunk < 1 {
		chunk = 1
	}

	for lo := 0; lo < len(records); lo += chunk {
		hi := lo + chunk
		if hi > len(records) {
			hi = len(records)
		}
		part := records[lo:hi]

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := range part {
				p.classifier.Classify(&part[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// a cancellation that raced the last chunk still invalidates the batch
	return ctx.Err()
}
