package classifier

import (
	"github.com/rajasatyajit/grievance-insights/internal/lexicon"
	"github.com/rajasatyajit/grievance-insights/internal/models"
)

// Classifier labels clean complaint text on the category, sentiment and
// urgency axes. It holds only the immutable lexicon set and is safe for
// concurrent use.
type Classifier struct {
	lex *lexicon.Set
}

// New creates a classifier over lex. A nil lex selects the built-in lexicon.
func New(lex *lexicon.Set) *Classifier {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Classifier{lex: lex}
}

// Lexicon returns the set the classifier scores against
func (c *Classifier) Lexicon() *lexicon.Set {
	return c.lex
}

// Classify fills the three labels of record from its CleanText
func (c *Classifier) Classify(record *models.ComplaintRecord) {
	record.Category = c.ClassifyCategory(record.CleanText)
	record.Sentiment = c.ClassifySentiment(record.CleanText)
	record.Urgency = c.ClassifyUrgency(record.CleanText)
}

// ClassifyCategory returns the highest scoring category. Ties go to the
// category listed first in the lexicon; no match yields Other.
func (c *Classifier) ClassifyCategory(clean string) models.Category {
	best := models.CategoryOther
	bestScore := 0

	for _, cat := range c.lex.CategoryLexicons() {
		// strict > keeps the earlier, higher priority category on ties
		if score := cat.Lexicon.Score(clean); score > bestScore {
			best, bestScore = cat.Label, score
		}
	}

	return best
}

// ClassifySentiment compares positive and negative scores. Equal scores,
// including none, are Neutral.
func (c *Classifier) ClassifySentiment(clean string) models.Sentiment {
	positive := c.lex.Positive().Score(clean)
	negative := c.lex.Negative().Score(clean)

	switch {
	case positive > negative:
		return models.SentimentPositive
	case negative > positive:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// ClassifyUrgency returns the highest scoring level, preferring the more
// severe level on ties. No signal yields Low.
func (c *Classifier) ClassifyUrgency(clean string) models.Urgency {
	best := models.UrgencyLow
	bestScore := 0

	for _, level := range models.UrgencyBySeverity() {
		if score := c.lex.Urgency(level).Score(clean); score > bestScore {
			best, bestScore = level, score
		}
	}

	return best
}
