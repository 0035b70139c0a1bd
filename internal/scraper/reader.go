// Package scraper fetches a tool's page through the reader API and extracts
// heuristically structured fields from it.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jonesrussell/toolscout/internal/httpclient"
)

// ErrReaderUnavailable indicates the reader API is unreachable or rejected
// the request. The failure propagates to the caller; the orchestrator
// isolates it per URL.
var ErrReaderUnavailable = errors.New("reader API unavailable")

// Page is the rendered page content returned by the reader API.
type Page struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	URL         string            `json:"url"`
	Images      map[string]string `json:"images,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// readerResponse is the JSON envelope the reader API returns.
type readerResponse struct {
	Code int  `json:"code"`
	Data Page `json:"data"`
}

// ReaderClient calls the Jina reader API to fetch rendered page content.
type ReaderClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewReaderClient creates a reader client. httpClient may be nil.
func NewReaderClient(baseURL, apiKey string, httpClient *http.Client) *ReaderClient {
	if httpClient == nil {
		httpClient = httpclient.Default()
	}
	return &ReaderClient{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

// Configured reports whether the client has an API key.
func (c *ReaderClient) Configured() bool {
	return c.apiKey != ""
}

// Fetch retrieves the rendered content of pageURL.
func (c *ReaderClient) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build reader request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-With-Images-Summary", "true")
	req.Header.Set("X-With-Links-Summary", "true")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReaderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrReaderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read reader response: %w", err)
	}

	var parsed readerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse reader response: %w", err)
	}
	if parsed.Data.URL == "" {
		parsed.Data.URL = pageURL
	}

	return &parsed.Data, nil
}
