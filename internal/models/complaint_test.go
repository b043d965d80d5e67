package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTexts(t *testing.T) {
	items := Texts("a", "", "c")
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[0].RawText != "a" || items[1].RawText != "" || items[2].RawText != "c" {
		t.Errorf("Unexpected items: %+v", items)
	}
}

func TestLabelSets(t *testing.T) {
	if got := len(Sentiments()); got != 3 {
		t.Errorf("Expected 3 sentiments, got %d", got)
	}
	levels := UrgencyBySeverity()
	if levels[0] != UrgencyHigh || levels[2] != UrgencyLow {
		t.Errorf("Expected severity-descending order, got %v", levels)
	}
}

func TestDashboardSummary_OmitsDetailsWhenEmpty(t *testing.T) {
	s := DashboardSummary{
		TotalComplaints:    1,
		TopRecurringIssues: []string{},
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "processed_complaints") {
		t.Errorf("Expected processed_complaints to be omitted, got %s", b)
	}

	s.ProcessedComplaints = []ComplaintRecord{{RawText: "x", CleanText: "x", Category: CategoryOther, Sentiment: SentimentNeutral, Urgency: UrgencyLow}}
	b, _ = json.Marshal(s)
	if !strings.Contains(string(b), `"processed_complaints":[{"raw_text":"x","clean_text":"x","category":"Other","sentiment":"Neutral","urgency":"Low"}]`) {
		t.Errorf("Unexpected encoding: %s", b)
	}
}
