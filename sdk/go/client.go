// Package sdk is a small Go client for the grievance insights HTTP API
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

type Client struct {
	BaseURL    string
	ClientType string
	HTTP       *http.Client
}

// Complaint is one raw complaint in a batch
type Complaint struct {
	RawText string `json:"raw_text"`
}

// Record is the classification of one complaint inside a summary
type Record struct {
	RawText   string `json:"raw_text"`
	CleanText string `json:"clean_text"`
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
	Urgency   string `json:"urgency"`
}

// Summary is the dashboard summary returned by the analyze endpoints
type Summary struct {
	TotalComplaints           int            `json:"total_complaints"`
	ComplaintVolumeByCategory map[string]int `json:"complaint_volume_by_category"`
	SentimentOverview         map[string]int `json:"sentiment_overview"`
	UrgencyDistribution       map[string]int `json:"urgency_distribution"`
	WeeklySummary             string         `json:"weekly_summary"`
	TopRecurringIssues        []string       `json:"top_recurring_issues"`
	ProcessedComplaints       []Record       `json:"processed_complaints,omitempty"`

	// BatchID is copied from the X-Batch-ID response header
	BatchID string `json:"-"`
}

// Classification is the result of AnalyzeSingle
type Classification struct {
	Complaint string `json:"complaint"`
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
	Urgency   string `json:"urgency"`
	CleanText string `json:"clean_text"`
}

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Code)
}

func New(baseURL, clientType string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &Client{BaseURL: baseURL, ClientType: clientType, HTTP: http.DefaultClient}
}

func (c *Client) headers(req *http.Request) {
	if c.ClientType != "" {
		req.Header.Set("X-Client-Type", c.ClientType)
	}
}

// AnalyzeBatch posts texts to /v1/analyze/batch
func (c *Client) AnalyzeBatch(ctx context.Context, texts []string, details bool) (*Summary, error) {
	complaints := make([]Complaint, len(texts))
	for i, t := range texts {
		complaints[i] = Complaint{RawText: t}
	}
	body, err := json.Marshal(map[string]interface{}{"complaints": complaints})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.analyzeURL("batch", details), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doSummary(req)
}

// AnalyzeCSV uploads a CSV document to /v1/analyze/csv. An empty column
// selects the server default.
func (c *Client) AnalyzeCSV(ctx context.Context, filename string, csv io.Reader, column string, details bool) (*Summary, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, csv); err != nil {
		return nil, err
	}
	if column != "" {
		if err := mw.WriteField("column", column); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.analyzeURL("csv", details), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.doSummary(req)
}

// AnalyzeSingle classifies one complaint
func (c *Client) AnalyzeSingle(ctx context.Context, text string) (*Classification, error) {
	body, err := json.Marshal(Complaint{RawText: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/analyze/single", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out Classification
	if _, err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories lists the server's category labels in priority order
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/v1/categories", nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Categories []string `json:"categories"`
	}
	if _, err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// Health returns nil when the server reports ready
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/v1/health/ready", nil)
	if err != nil {
		return err
	}
	var out map[string]interface{}
	_, err = c.do(req, &out)
	return err
}

func (c *Client) analyzeURL(kind string, details bool) string {
	u, _ := url.Parse(c.BaseURL + "/v1/analyze/" + kind)
	q := u.Query()
	q.Set("details", strconv.FormatBool(details))
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) doSummary(req *http.Request) (*Summary, error) {
	var out Summary
	resp, err := c.do(req, &out)
	if err != nil {
		return nil, err
	}
	out.BatchID = resp.Header.Get("X-Batch-ID")
	return &out, nil
}

func (c *Client) do(req *http.Request, out interface{}) (*http.Response, error) {
	c.headers(req)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return nil, apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}
