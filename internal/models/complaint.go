package models

// Category is a subject-matter label from the lexicon's closed category set
type Category string

// CategoryOther is the catch-all category used when no lexicon phrase matches
const CategoryOther Category = "Other"

// Sentiment is the polarity label of a complaint
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Urgency is the response-priority label of a complaint
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// Sentiments returns every sentiment label in display order
func Sentiments() []Sentiment {
	return []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}
}

// UrgencyLevels returns every urgency label in display order
func UrgencyLevels() []Urgency {
	return []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh}
}

// UrgencyBySeverity returns the urgency labels most severe first
func UrgencyBySeverity() []Urgency {
	return []Urgency{UrgencyHigh, UrgencyMedium, UrgencyLow}
}

// RawComplaint is a single free-text grievance as submitted by a caller
type RawComplaint struct {
	RawText string `json:"raw_text"`
}

// ComplaintRecord is the classified form of one non-blank complaint
type ComplaintRecord struct {
	RawText   string    `json:"raw_text"`
	CleanText string    `json:"clean_text"`
	Category  Category  `json:"category"`
	Sentiment Sentiment `json:"sentiment"`
	Urgency   Urgency   `json:"urgency"`
}

// DashboardSummary is the aggregated view of one batch of complaints
type DashboardSummary struct {
	TotalComplaints           int               `json:"total_complaints"`
	ComplaintVolumeByCategory map[string]int    `json:"complaint_volume_by_category"`
	SentimentOverview         map[string]int    `json:"sentiment_overview"`
	UrgencyDistribution       map[string]int    `json:"urgency_distribution"`
	WeeklySummary             string            `json:"weekly_summary"`
	TopRecurringIssues        []string          `json:"top_recurring_issues"`
	ProcessedComplaints       []ComplaintRecord `json:"processed_complaints,omitempty"`
}

// Texts builds raw complaints from plain strings
func Texts(texts ...string) []RawComplaint {
	out := make([]RawComplaint, len(texts))
	for i, t := range texts {
		out[i] = RawComplaint{RawText: t}
	}
	return out
}
