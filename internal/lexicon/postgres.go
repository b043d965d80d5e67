package lexicon

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/rajasatyajit/grievance-insights/internal/errors"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
)

// Database is the subset of the database layer the lexicon loader needs
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (interface{}, error)
}

// rows is satisfied by pgx.Rows
type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

const lexiconQuery = `
	SELECT axis, label, phrase, weight, priority
	FROM lexicon_entries
	ORDER BY priority, label, phrase
`

// PostgresSource reads lexicon tables from the lexicon_entries table
type PostgresSource struct {
	db Database
}

// NewPostgresSource creates a source over db
func NewPostgresSource(db Database) *PostgresSource {
	return &PostgresSource{db: db}
}

// Load reads every entry once and builds a validated Set. Categories keep the
// order of their first row, which is priority then label.
func (s *PostgresSource) Load(ctx context.Context) (*Set, error) {
	const source = "postgres:lexicon_entries"

	rowsInterface, err := s.db.Query(ctx, lexiconQuery)
	if err != nil {
		return nil, apperrors.LexiconError{Source: source, Err: apperrors.DatabaseError{Operation: "load lexicon", Err: err}}
	}

	r, ok := rowsInterface.(rows)
	if !ok {
		return nil, apperrors.LexiconError{Source: source, Err: fmt.Errorf("invalid rows type")}
	}
	defer r.Close()

	spec := Spec{
		Sentiment: SentimentSpec{Positive: map[string]int{}, Negative: map[string]int{}},
		Urgency:   UrgencySpec{High: map[string]int{}, Medium: map[string]int{}, Low: map[string]int{}},
	}
	categoryIndex := make(map[string]int)
	var problems apperrors.MultiError
	count := 0

	for r.Next() {
		var axis, label, phrase string
		var weight, priority int
		if err := r.Scan(&axis, &label, &phrase, &weight, &priority); err != nil {
			return nil, apperrors.LexiconError{Source: source, Err: fmt.Errorf("scan lexicon entry: %w", err)}
		}
		count++
		field := fmt.Sprintf("row[%d]", count)

		switch strings.ToLower(axis) {
		case "category":
			idx, ok := categoryIndex[label]
			if !ok {
				idx = len(spec.Categories)
				categoryIndex[label] = idx
				spec.Categories = append(spec.Categories, CategorySpec{Label: label, Phrases: map[string]int{}})
			}
			spec.Categories[idx].Phrases[phrase] = weight
		case "sentiment":
			table := sentimentTable(&spec, label)
			if table == nil {
				problems.Add(apperrors.ValidationError{Field: field + ".label", Message: fmt.Sprintf("unknown sentiment polarity %q", label)})
				continue
			}
			table[phrase] = weight
		case "urgency":
			table := urgencyTable(&spec, label)
			if table == nil {
				problems.Add(apperrors.ValidationError{Field: field + ".label", Message: fmt.Sprintf("unknown urgency level %q", label)})
				continue
			}
			table[phrase] = weight
		default:
			problems.Add(apperrors.ValidationError{Field: field + ".axis", Message: fmt.Sprintf("unknown axis %q", axis)})
		}
	}
	if err := r.Err(); err != nil {
		return nil, apperrors.LexiconError{Source: source, Err: apperrors.DatabaseError{Operation: "load lexicon", Err: err}}
	}
	if problems.HasErrors() {
		return nil, apperrors.LexiconError{Source: source, Err: problems}
	}

	set, err := build(source, spec)
	if err != nil {
		return nil, err
	}

	logger.Info("Lexicon loaded from database",
		"entries", count,
		"categories", len(spec.Categories),
	)
	return set, nil
}

func sentimentTable(spec *Spec, label string) map[string]int {
	switch strings.ToLower(label) {
	case "positive":
		return spec.Sentiment.Positive
	case "negative":
		return spec.Sentiment.Negative
	}
	return nil
}

func urgencyTable(spec *Spec, label string) map[string]int {
	switch strings.ToLower(label) {
	case "high":
		return spec.Urgency.High
	case "medium":
		return spec.Urgency.Medium
	case "low":
		return spec.Urgency.Low
	}
	return nil
}
