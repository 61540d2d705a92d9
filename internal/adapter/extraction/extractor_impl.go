package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/event-ingest-service/internal/entity"
)

// Client calls the external extraction service, which converts page content
// into zero or more structured event candidates.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type extractRequest struct {
	Markdown string `json:"markdown"`
	URL      string `json:"url"`
}

// NewClient creates an extraction service client. The timeout applies to
// each call.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether the endpoint and credential are both set.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// Extract submits page content and returns the service's candidate events.
// A non-2xx status or an unparseable body is an error; a parseable body with
// success=false is returned to the caller as-is.
func (c *Client) Extract(ctx context.Context, markdown, pageURL string) (*entity.ExtractionResult, error) {
	jsonData, err := json.Marshal(extractRequest{Markdown: markdown, URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, excerpt(body))
	}

	var result entity.ExtractionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w, body: %s", err, excerpt(body))
	}

	return &result, nil
}

// excerpt truncates a response body for error messages.
func excerpt(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
