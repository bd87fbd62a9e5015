package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/balkashynov/dotask/internal/models"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-1.5-flash"
)

var ErrNoAPIKey = errors.New("gemini api key not set")

// GeminiClient calls the Gemini generateContent API.
// It never retries and applies no timeout of its own; the caller's
// context is the only bound on a request.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// GeminiOption configures a GeminiClient
type GeminiOption func(*GeminiClient)

// WithBaseURL points the client at another endpoint
func WithBaseURL(u string) GeminiOption {
	return func(c *GeminiClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel selects the model name
func WithModel(m string) GeminiOption {
	return func(c *GeminiClient) {
		if m != "" {
			c.model = m
		}
	}
}

// WithHTTPClient replaces the underlying http client
func WithHTTPClient(hc *http.Client) GeminiOption {
	return func(c *GeminiClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewGeminiClient creates a client for the Gemini API
func NewGeminiClient(apiKey string, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		apiKey:  apiKey,
		model:   DefaultGeminiModel,
		baseURL: DefaultGeminiBaseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// draftJSON is the shape the model is asked to answer with
type draftJSON struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
	Estimate    string `json:"estimate"`
}

// ParseTask sends text to the model and decodes its JSON answer
func (c *GeminiClient) ParseTask(ctx context.Context, text string, now time.Time) (*Draft, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: buildPrompt(text, now)}}},
		},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response content")
	}

	return parseDraft(apiResp.Candidates[0].Content.Parts[0].Text, now.Location())
}

func buildPrompt(text string, now time.Time) string {
	var b strings.Builder
	b.WriteString("Extract a task from the user's input. ")
	fmt.Fprintf(&b, "The current date and time is %s. ", now.Format(time.RFC3339))
	b.WriteString("Resolve relative dates against it. ")
	b.WriteString(`Answer with a single JSON object with the keys "title" (string), `)
	b.WriteString(`"description" (string, optional), "dueDate" (ISO 8601, optional), `)
	b.WriteString(`"priority" (one of "None", "Low", "Medium", "High"), `)
	b.WriteString(`"estimate" (string like "30m" or "2h", optional). `)
	b.WriteString("If the input does not describe a task, answer null.\n\n")
	b.WriteString("Input: ")
	b.WriteString(text)
	return b.String()
}

// parseDraft decodes the model's answer, handling markdown code fences
// and a literal null
func parseDraft(text string, loc *time.Location) (*Draft, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		}
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	if cleaned == "" || cleaned == "null" {
		return nil, nil
	}

	var raw draftJSON
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("parse draft JSON: %w (raw: %s)", err, text)
	}
	if strings.TrimSpace(raw.Title) == "" {
		return nil, nil
	}

	d := &Draft{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Priority:    models.ParsePriority(raw.Priority),
		Estimate:    strings.TrimSpace(raw.Estimate),
	}
	if raw.DueDate != "" {
		if due, ok := parseDate(raw.DueDate, loc); ok {
			d.DueDate = &due
		}
	}
	return d, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
