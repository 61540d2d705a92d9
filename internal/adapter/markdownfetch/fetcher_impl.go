package markdownfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the remote content-fetch service, which renders a page and
// returns it as normalized markdown.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type fetchRequest struct {
	URL string `json:"url"`
}

type fetchResponse struct {
	Markdown string `json:"markdown"`
	Error    string `json:"error,omitempty"`
}

// NewClient creates a content-fetch service client. The timeout applies to
// each call so a hung fetch cannot stall the whole batch.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether a service endpoint is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Fetch returns the page content for pageURL as markdown text.
// Every failure message carries the offending URL.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	jsonData, err := json.Marshal(fetchRequest{URL: pageURL})
	if err != nil {
		return "", fmt.Errorf("failed to marshal fetch request for %s: %w", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/fetch", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create fetch request for %s: %w", pageURL, err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("content fetch failed for %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read fetch response for %s: %w", pageURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("content fetch service returned status %d for %s", resp.StatusCode, pageURL)
	}

	var result fetchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse fetch response for %s: %w", pageURL, err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("content fetch service error for %s: %s", pageURL, result.Error)
	}

	return result.Markdown, nil
}
