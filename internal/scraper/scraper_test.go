package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/toolscout/internal/logger"
)

type stubFetcher struct {
	page *Page
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) (*Page, error) {
	return f.page, f.err
}

func TestScrapeExtractsStructuredFields(t *testing.T) {
	fetcher := &stubFetcher{page: &Page{
		Title:       "Acme AI | Assistant",
		Description: "An AI assistant for busy teams.",
		Content: `## Features

- Fast inference
- Team workspaces

Upgrade any time for $20/month.`,
		Links: map[string]string{"GitHub": "https://github.com/acme/ai"},
	}}

	s := New(fetcher, logger.NewNop())
	data, err := s.Scrape(context.Background(), "https://acme.ai")
	require.NoError(t, err)

	assert.Equal(t, "Acme AI", data.Name)
	assert.Equal(t, "An AI assistant for busy teams.", data.Tagline)
	assert.Equal(t, []string{"Fast inference", "Team workspaces"}, data.Features)
	assert.Equal(t, "subscription", data.Pricing.Model)
	assert.Equal(t, "https://github.com/acme/ai", data.GitHub)
	assert.Equal(t, "https://logo.clearbit.com/acme.ai", data.Logo)
}

func TestScrapePropagatesFetchError(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}

	s := New(fetcher, logger.NewNop())
	_, err := s.Scrape(context.Background(), "https://acme.ai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://acme.ai")
}

func TestReaderClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "true", r.Header.Get("X-With-Images-Summary"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": 200,
			"data": {
				"title": "Acme AI",
				"description": "An assistant.",
				"content": "body text",
				"images": {"hero": "https://cdn.acme.ai/hero.png"}
			}
		}`))
	}))
	defer server.Close()

	client := NewReaderClient(server.URL, "test-key", server.Client())
	page, err := client.Fetch(context.Background(), "https://acme.ai")
	require.NoError(t, err)

	assert.Equal(t, "Acme AI", page.Title)
	assert.Equal(t, "https://acme.ai", page.URL)
	assert.Equal(t, "https://cdn.acme.ai/hero.png", page.Images["hero"])
}

func TestReaderClientUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewReaderClient(server.URL, "test-key", server.Client())
	_, err := client.Fetch(context.Background(), "https://acme.ai")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReaderUnavailable)
}
