// Package aggregator reduces classified complaints into dashboard statistics
package aggregator

import (
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/rajasatyajit/grievance-insights/internal/lexicon"
	"github.com/rajasatyajit/grievance-insights/internal/models"
	"github.com/rajasatyajit/grievance-insights/pkg/utils"
)

const (
	DefaultTopIssues      = 5
	DefaultMinTokenLength = 3
)

// Options tunes recurring-issue extraction
type Options struct {
	TopIssues      int
	MinTokenLength int
}

// Aggregator computes a DashboardSummary from a complete record set.
// It has no mutable state and is safe for concurrent use.
type Aggregator struct {
	lex       *lexicon.Set
	topIssues int
	minLength int
}

// New creates an aggregator. Zero options fall back to the defaults and a nil
// lex selects the built-in lexicon.
func New(lex *lexicon.Set, opts Options) *Aggregator {
	if lex == nil {
		lex = lexicon.Default()
	}
	if opts.TopIssues <= 0 {
		opts.TopIssues = DefaultTopIssues
	}
	if opts.MinTokenLength <= 0 {
		opts.MinTokenLength = DefaultMinTokenLength
	}
	return &Aggregator{lex: lex, topIssues: opts.TopIssues, minLength: opts.MinTokenLength}
}

// Options returns the effective options after defaults
func (a *Aggregator) Options() Options {
	return Options{TopIssues: a.topIssues, MinTokenLength: a.minLength}
}

// Aggregate builds the summary for records. ProcessedComplaints is left for
// the caller to fill.
func (a *Aggregator) Aggregate(records []models.ComplaintRecord) models.DashboardSummary {
	summary := models.DashboardSummary{
		TotalComplaints:           len(records),
		ComplaintVolumeByCategory: make(map[string]int),
		SentimentOverview:         make(map[string]int, 3),
		UrgencyDistribution:       make(map[string]int, 3),
	}

	for _, s := range models.Sentiments() {
		summary.SentimentOverview[string(s)] = 0
	}
	for _, u := range models.UrgencyLevels() {
		summary.UrgencyDistribution[string(u)] = 0
	}

	for _, r := range records {
		summary.ComplaintVolumeByCategory[string(r.Category)]++
		summary.SentimentOverview[string(r.Sentiment)]++
		summary.UrgencyDistribution[string(r.Urgency)]++
	}

	summary.TopRecurringIssues = a.TopIssues(records)
	summary.WeeklySummary = a.narrative(summary)
	return summary
}

type tokenCount struct {
	token string
	count int
	first int
}

// TopIssues ranks significant words by frequency across all clean texts.
// Every occurrence counts; ties keep first-seen order.
func (a *Aggregator) TopIssues(records []models.ComplaintRecord) []string {
	index := make(map[string]int)
	var counts []tokenCount

	for _, r := range records {
		for _, tok := range utils.Tokens(r.CleanText) {
			if utf8.RuneCountInString(tok) < a.minLength || IsStopword(tok) {
				continue
			}
			if i, ok := index[tok]; ok {
				counts[i].count++
				continue
			}
			index[tok] = len(counts)
			counts = append(counts, tokenCount{token: tok, count: 1, first: len(counts)})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].first < counts[j].first
	})

	n := a.topIssues
	if len(counts) < n {
		n = len(counts)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = counts[i].token
	}
	return out
}

// TopCategory returns the most frequent category and its count. Ties follow
// lexicon priority with Other last.
func (a *Aggregator) TopCategory(volume map[string]int) (models.Category, int) {
	best := models.CategoryOther
	bestCount := 0
	for label, n := range volume {
		if n <= 0 {
			continue
		}
		c := models.Category(label)
		if n > bestCount || (n == bestCount && a.ranksBefore(c, best)) {
			best, bestCount = c, n
		}
	}
	return best, bestCount
}

func (a *Aggregator) ranksBefore(x, y models.Category) bool {
	px, py := a.lex.CategoryPriority(x), a.lex.CategoryPriority(y)
	if px != py {
		return px < py
	}
	return x < y
}

// dominanceOrder resolves sentiment ties toward the more negative label
var dominanceOrder = []models.Sentiment{models.SentimentNegative, models.SentimentNeutral, models.SentimentPositive}

// DominantSentiment returns the most frequent sentiment
func DominantSentiment(overview map[string]int) models.Sentiment {
	best := models.SentimentNeutral
	bestCount := -1
	for _, s := range dominanceOrder {
		if n := overview[string(s)]; n > bestCount {
			best, bestCount = s, n
		}
	}
	return best
}

func (a *Aggregator) narrative(s models.DashboardSummary) string {
	if s.TotalComplaints == 0 {
		return "Weekly summary: no complaints analyzed."
	}

	plural := "s"
	if s.TotalComplaints == 1 {
		plural = ""
	}
	topCategory, topCount := a.TopCategory(s.ComplaintVolumeByCategory)
	dominant := DominantSentiment(s.SentimentOverview)

	return fmt.Sprintf(
		"Weekly summary: analyzed %d complaint%s. Most reported category: %s (%d). "+
			"Overall sentiment is %s with %d%% negative, and %d%% flagged as high urgency.",
		s.TotalComplaints, plural,
		topCategory, topCount,
		lower(dominant),
		percent(s.SentimentOverview[string(models.SentimentNegative)], s.TotalComplaints),
		percent(s.UrgencyDistribution[string(models.UrgencyHigh)], s.TotalComplaints),
	)
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

func lower(s models.Sentiment) string {
	switch s {
	case models.SentimentPositive:
		return "positive"
	case models.SentimentNegative:
		return "negative"
	default:
		return "neutral"
	}
}
