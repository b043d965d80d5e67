// Package lexicon holds the immutable phrase tables that drive complaint
// classification. A Set is built once, validated, and then shared read-only
// by every classifier goroutine.
package lexicon

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/rajasatyajit/grievance-insights/internal/errors"
	"github.com/rajasatyajit/grievance-insights/internal/models"
	"github.com/rajasatyajit/grievance-insights/pkg/utils"
)

// Spec is the declarative form of a lexicon set, as written in YAML files or
// assembled from database rows. Category order is the tie-break priority.
type Spec struct {
	Categories []CategorySpec `yaml:"categories"`
	Sentiment  SentimentSpec  `yaml:"sentiment"`
	Urgency    UrgencySpec    `yaml:"urgency"`
}

// CategorySpec maps phrases to weights for one category label
type CategorySpec struct {
	Label   string         `yaml:"label"`
	Phrases map[string]int `yaml:"phrases"`
}

type SentimentSpec struct {
	Positive map[string]int `yaml:"positive"`
	Negative map[string]int `yaml:"negative"`
}

type UrgencySpec struct {
	High   map[string]int `yaml:"high"`
	Medium map[string]int `yaml:"medium"`
	Low    map[string]int `yaml:"low"`
}

// Entry is one normalized phrase and its weight
type Entry struct {
	Phrase string
	Weight int
}

// Lexicon is an immutable phrase table
type Lexicon struct {
	entries []Entry
}

// Score sums the weight of every phrase present in clean text. A phrase counts
// once no matter how often it repeats.
func (l Lexicon) Score(clean string) int {
	score := 0
	for _, e := range l.entries {
		if utils.ContainsPhrase(clean, e.Phrase) {
			score += e.Weight
		}
	}
	return score
}

// Len returns the number of phrases
func (l Lexicon) Len() int { return len(l.entries) }

// CategoryLexicon pairs a category label with its phrase table
type CategoryLexicon struct {
	Label   models.Category
	Lexicon Lexicon
}

// Set is the complete, validated lexicon configuration
type Set struct {
	categories  []CategoryLexicon
	positive    Lexicon
	negative    Lexicon
	urgency     map[models.Urgency]Lexicon
	fingerprint string
}

// New validates spec and builds an immutable Set. Every problem found is
// reported together as a MultiError wrapped in a LexiconError.
func New(spec Spec) (*Set, error) {
	return build("spec", spec)
}

func build(source string, spec Spec) (*Set, error) {
	var problems apperrors.MultiError

	if len(spec.Categories) == 0 {
		problems.Add(apperrors.ValidationError{Field: "categories", Message: "at least one category is required"})
	}

	set := &Set{urgency: make(map[models.Urgency]Lexicon, 3)}
	seen := make(map[string]bool, len(spec.Categories))

	for i, c := range spec.Categories {
		field := fmt.Sprintf("categories[%d]", i)
		label := strings.TrimSpace(c.Label)
		switch {
		case label == "":
			problems.Add(apperrors.ValidationError{Field: field + ".label", Message: "must not be empty"})
		case strings.EqualFold(label, string(models.CategoryOther)):
			problems.Add(apperrors.ValidationError{Field: field + ".label", Message: "\"Other\" is reserved for unmatched complaints"})
		case seen[strings.ToLower(label)]:
			problems.Add(apperrors.ValidationError{Field: field + ".label", Message: fmt.Sprintf("duplicate category %q", label)})
		}
		seen[strings.ToLower(label)] = true

		if len(c.Phrases) == 0 {
			problems.Add(apperrors.ValidationError{Field: field + ".phrases", Message: "must define at least one phrase"})
		}
		lex := compile(field+".phrases", c.Phrases, &problems)
		set.categories = append(set.categories, CategoryLexicon{Label: models.Category(label), Lexicon: lex})
	}

	set.positive = compile("sentiment.positive", spec.Sentiment.Positive, &problems)
	set.negative = compile("sentiment.negative", spec.Sentiment.Negative, &problems)
	set.urgency[models.UrgencyHigh] = compile("urgency.high", spec.Urgency.High, &problems)
	set.urgency[models.UrgencyMedium] = compile("urgency.medium", spec.Urgency.Medium, &problems)
	set.urgency[models.UrgencyLow] = compile("urgency.low", spec.Urgency.Low, &problems)

	if problems.HasErrors() {
		return nil, apperrors.LexiconError{Source: source, Err: problems}
	}

	set.fingerprint = set.computeFingerprint()
	return set, nil
}

// compile normalizes phrases and sorts them so iteration order never depends
// on map order
func compile(field string, phrases map[string]int, problems *apperrors.MultiError) Lexicon {
	keys := make([]string, 0, len(phrases))
	for k := range phrases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	byPhrase := make(map[string]string, len(keys))
	for _, raw := range keys {
		weight := phrases[raw]
		phrase := utils.Normalize(raw)
		if phrase == "" {
			problems.Add(apperrors.ValidationError{Field: field, Message: fmt.Sprintf("phrase %q is empty after normalization", raw)})
			continue
		}
		if weight <= 0 {
			problems.Add(apperrors.ValidationError{Field: field, Message: fmt.Sprintf("phrase %q must have a positive weight, got %d", raw, weight)})
			continue
		}
		if prev, dup := byPhrase[phrase]; dup {
			problems.Add(apperrors.ValidationError{Field: field, Message: fmt.Sprintf("phrases %q and %q normalize to the same text", prev, raw)})
			continue
		}
		byPhrase[phrase] = raw
		entries = append(entries, Entry{Phrase: phrase, Weight: weight})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Phrase < entries[j].Phrase })
	return Lexicon{entries: entries}
}

// Categories returns the category labels in priority order followed by Other
func (s *Set) Categories() []models.Category {
	out := make([]models.Category, 0, len(s.categories)+1)
	for _, c := range s.categories {
		out = append(out, c.Label)
	}
	return append(out, models.CategoryOther)
}

// CategoryLexicons returns the category tables in priority order
func (s *Set) CategoryLexicons() []CategoryLexicon {
	out := make([]CategoryLexicon, len(s.categories))
	copy(out, s.categories)
	return out
}

// CategoryPriority returns the tie-break rank of a category. Lower wins; Other
// and unknown labels rank last.
func (s *Set) CategoryPriority(label models.Category) int {
	for i, c := range s.categories {
		if c.Label == label {
			return i
		}
	}
	return len(s.categories)
}

func (s *Set) Positive() Lexicon { return s.positive }
func (s *Set) Negative() Lexicon { return s.negative }

// Urgency returns the signal table for one level
func (s *Set) Urgency(level models.Urgency) Lexicon { return s.urgency[level] }

// Fingerprint identifies the normalized content of the set. Two sets with the
// same fingerprint classify every text identically.
func (s *Set) Fingerprint() string { return s.fingerprint }

func (s *Set) computeFingerprint() string {
	var parts []string
	add := func(axis, label string, lex Lexicon) {
		parts = append(parts, axis, label, strconv.Itoa(len(lex.entries)))
		for _, e := range lex.entries {
			parts = append(parts, e.Phrase, strconv.Itoa(e.Weight))
		}
	}
	for _, c := range s.categories {
		add("category", string(c.Label), c.Lexicon)
	}
	add("sentiment", string(models.SentimentPositive), s.positive)
	add("sentiment", string(models.SentimentNegative), s.negative)
	for _, level := range models.UrgencyBySeverity() {
		add("urgency", string(level), s.urgency[level])
	}
	return utils.HashStrings(parts...)
}
