// Package searchclient provides a client for the Jina web-search API used
// during tool discovery and SERP position lookups.
package searchclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonesrussell/toolscout/internal/httpclient"
)

// ErrUnavailable indicates the search API is unreachable or rejected the request.
var ErrUnavailable = errors.New("search API unavailable")

// defaultResultCount is the number of results requested per query.
const defaultResultCount = 10

// Result is one ranked search result.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Favicon string `json:"favicon,omitempty"`
}

// Options tunes a single search request.
type Options struct {
	// Count is the maximum number of results. Zero means the default.
	Count int
	// Locale is an optional country/locale hint.
	Locale string
}

// Client calls the Jina search API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a search client. httpClient may be nil.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = httpclient.Default()
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

// searchResponse is the JSON envelope the API returns.
type searchResponse struct {
	Code int      `json:"code"`
	Data []Result `json:"data"`
}

// Search issues one query and returns ranked results. There is no retry; a
// failed query surfaces as an error and the caller decides whether to skip.
func (c *Client) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	count := opts.Count
	if count <= 0 {
		count = defaultResultCount
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	if opts.Locale != "" {
		params.Set("gl", opts.Locale)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	return parsed.Data, nil
}
