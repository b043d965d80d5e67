package classifier

import (
	"testing"

	"github.com/rajasatyajit/grievance-insights/internal/lexicon"
	"github.com/rajasatyajit/grievance-insights/internal/models"
	"github.com/rajasatyajit/grievance-insights/pkg/utils"
)

func TestClassifier_Classify(t *testing.T) {
	classifier := New(nil)

	tests := []struct {
		name              string
		text              string
		expectedCategory  models.Category
		expectedSentiment models.Sentiment
		expectedUrgency   models.Urgency
	}{
		{
			name:              "Connectivity outage flagged urgent",
			text:              "The wifi has been down for three days, extremely urgent!!",
			expectedCategory:  "Connectivity",
			expectedSentiment: models.SentimentNegative,
			expectedUrgency:   models.UrgencyHigh,
		},
		{
			name:              "Maintenance praise",
			text:              "Thanks, the maintenance team fixed my room heater quickly.",
			expectedCategory:  "Maintenance",
			expectedSentiment: models.SentimentPositive,
			expectedUrgency:   models.UrgencyLow,
		},
		{
			name:              "Noise without sentiment words",
			text:              "Loud music and a party next door every night",
			expectedCategory:  "Noise",
			expectedSentiment: models.SentimentNeutral,
			expectedUrgency:   models.UrgencyLow,
		},
		{
			name:              "Theft needs immediate action",
			text:              "Someone took my laptop. Theft from room, need help immediately",
			expectedCategory:  "Security",
			expectedSentiment: models.SentimentNeutral,
			expectedUrgency:   models.UrgencyHigh,
		},
		{
			name:              "Recurring food problem",
			text:              "The mess food is stale again",
			expectedCategory:  "Food",
			expectedSentiment: models.SentimentNegative,
			expectedUrgency:   models.UrgencyMedium,
		},
		{
			name:              "Broken fan",
			text:              "Fan broken in room 204 since yesterday",
			expectedCategory:  "Maintenance",
			expectedSentiment: models.SentimentNegative,
			expectedUrgency:   models.UrgencyMedium,
		},
		{
			name:              "No lexicon phrase at all",
			text:              "asdf qwerty zxcv",
			expectedCategory:  models.CategoryOther,
			expectedSentiment: models.SentimentNeutral,
			expectedUrgency:   models.UrgencyLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := models.ComplaintRecord{RawText: tt.text, CleanText: utils.Normalize(tt.text)}
			classifier.Classify(&record)

			if record.Category != tt.expectedCategory {
				t.Errorf("Expected category %s, got %s", tt.expectedCategory, record.Category)
			}
			if record.Sentiment != tt.expectedSentiment {
				t.Errorf("Expected sentiment %s, got %s", tt.expectedSentiment, record.Sentiment)
			}
			if record.Urgency != tt.expectedUrgency {
				t.Errorf("Expected urgency %s, got %s", tt.expectedUrgency, record.Urgency)
			}
		})
	}
}

func mustSet(t *testing.T, spec lexicon.Spec) *lexicon.Set {
	t.Helper()
	set, err := lexicon.New(spec)
	if err != nil {
		t.Fatalf("build lexicon: %v", err)
	}
	return set
}

func TestClassifier_CategoryTieBreak(t *testing.T) {
	first := mustSet(t, lexicon.Spec{Categories: []lexicon.CategorySpec{
		{Label: "Alpha", Phrases: map[string]int{"apple": 2}},
		{Label: "Beta", Phrases: map[string]int{"banana": 2}},
	}})
	second := mustSet(t, lexicon.Spec{Categories: []lexicon.CategorySpec{
		{Label: "Beta", Phrases: map[string]int{"banana": 2}},
		{Label: "Alpha", Phrases: map[string]int{"apple": 2}},
	}})

	if got := New(first).ClassifyCategory("apple banana"); got != "Alpha" {
		t.Errorf("Expected earlier category Alpha to win the tie, got %s", got)
	}
	if got := New(second).ClassifyCategory("apple banana"); got != "Beta" {
		t.Errorf("Expected earlier category Beta to win the tie, got %s", got)
	}
	if got := New(first).ClassifyCategory("apple apple banana"); got != "Alpha" {
		t.Errorf("Expected presence scoring to keep the tie, got %s", got)
	}
	if got := New(second).ClassifyCategory("pineapple"); got != models.CategoryOther {
		t.Errorf("Expected Other for partial-word match, got %s", got)
	}
}

func TestClassifier_UrgencyTieBreak(t *testing.T) {
	set := mustSet(t, lexicon.Spec{
		Categories: []lexicon.CategorySpec{{Label: "Any", Phrases: map[string]int{"any": 1}}},
		Urgency: lexicon.UrgencySpec{
			High:   map[string]int{"fire": 1},
			Medium: map[string]int{"soon": 1, "later": 2},
			Low:    map[string]int{"whenever": 2},
		},
	})
	c := New(set)

	tests := []struct {
		text string
		want models.Urgency
	}{
		{"fire soon", models.UrgencyHigh},
		{"later whenever", models.UrgencyMedium},
		{"fire later", models.UrgencyMedium},
		{"whenever", models.UrgencyLow},
		{"nothing here", models.UrgencyLow},
	}
	for _, tt := range tests {
		if got := c.ClassifyUrgency(tt.text); got != tt.want {
			t.Errorf("ClassifyUrgency(%q): expected %s, got %s", tt.text, tt.want, got)
		}
	}
}

func TestClassifier_SentimentEquality(t *testing.T) {
	c := New(lexicon.Default())

	tests := []struct {
		text string
		want models.Sentiment
	}{
		{"nice but slow", models.SentimentNeutral},
		{"good but bad", models.SentimentNegative},
		{"great and helpful", models.SentimentPositive},
		{"", models.SentimentNeutral},
	}
	for _, tt := range tests {
		if got := c.ClassifySentiment(tt.text); got != tt.want {
			t.Errorf("ClassifySentiment(%q): expected %s, got %s", tt.text, tt.want, got)
		}
	}
}

func BenchmarkClassifier_Classify(b *testing.B) {
	c := New(nil)
	record := models.ComplaintRecord{CleanText: utils.Normalize("The wifi has been down for three days, extremely urgent!!")}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Classify(&record)
	}
}
