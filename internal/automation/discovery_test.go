package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/toolscout/internal/classifier"
	"github.com/jonesrussell/toolscout/internal/database"
	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
	"github.com/jonesrussell/toolscout/internal/scraper"
	"github.com/jonesrussell/toolscout/internal/searchclient"
)

type stubSearcher struct {
	results map[string][]searchclient.Result
	err     error
}

func (s *stubSearcher) Search(_ context.Context, query string, _ searchclient.Options) ([]searchclient.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

type stubScraper struct {
	pages map[string]*scraper.ScrapedData
	errs  map[string]error
}

func (s *stubScraper) Scrape(_ context.Context, pageURL string) (*scraper.ScrapedData, error) {
	if err := s.errs[pageURL]; err != nil {
		return nil, err
	}
	if page, ok := s.pages[pageURL]; ok {
		return page, nil
	}
	return nil, errors.New("unexpected url " + pageURL)
}

type stubClassifier struct {
	results map[string]*classifier.Result
}

func (s *stubClassifier) Classify(_ context.Context, data *scraper.ScrapedData) *classifier.Result {
	if result, ok := s.results[data.URL]; ok {
		return result
	}
	return &classifier.Result{
		Name:       data.Name,
		Categories: []string{"AI Tools"},
		Confidence: 50,
		Source:     "fallback",
	}
}

func classified(name string, confidence int) *classifier.Result {
	return &classifier.Result{
		Name:       name,
		Tagline:    name + " tagline",
		Categories: []string{"Coding AI"},
		Confidence: confidence,
		Source:     "anthropic",
	}
}

func TestNormalizeCandidateURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "canonical", in: "https://acme.ai/", want: "https://acme.ai", ok: true},
		{name: "strips www and query", in: "https://www.acme.ai/home?ref=x#top", want: "https://acme.ai/home", ok: true},
		{name: "blocklisted host", in: "https://twitter.com/someai", ok: false},
		{name: "blocklisted subdomain", in: "https://en.wikipedia.org/wiki/AI", ok: false},
		{name: "not http", in: "ftp://acme.ai", ok: false},
		{name: "garbage", in: "::::", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeCandidateURL(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDiscoveryRunCreatesApprovedAndPendingTools(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()

	searcher := &stubSearcher{results: map[string][]searchclient.Result{
		"q1": {
			{URL: "https://acme.ai"},
			{URL: "https://beta.tools/"},
			{URL: "https://twitter.com/acmeai"}, // blocklisted
			{URL: "https://acme.ai"},            // duplicate within the run
		},
	}}
	scr := &stubScraper{pages: map[string]*scraper.ScrapedData{
		"https://acme.ai":    {URL: "https://acme.ai", Name: "Acme AI"},
		"https://beta.tools": {URL: "https://beta.tools", Name: "Beta"},
	}}
	cls := &stubClassifier{results: map[string]*classifier.Result{
		"https://acme.ai":    classified("Acme AI", 90),
		"https://beta.tools": classified("Beta", 60),
	}}

	d := NewDiscovery(store, searcher, scr, cls, NopThrottle{}, []string{"q1"}, 5, logger.NewNop())
	metadata, err := d.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, metadata.Counts["candidates"])
	assert.Equal(t, 2, metadata.Counts["queued"])
	assert.Equal(t, 2, metadata.Counts["processed"])
	assert.Equal(t, 2, metadata.Counts["created"])
	assert.Empty(t, metadata.Errors)

	acme, err := store.Tools.GetBySlug(ctx, "acme-ai")
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStatusApproved, acme.Status, "confidence 90 > 70 auto-approves")
	assert.Equal(t, "https://acme.ai", acme.Website)

	beta, err := store.Tools.GetBySlug(ctx, "beta")
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStatusPending, beta.Status, "confidence 60 queues for review")

	category, err := store.Categories.GetByName(ctx, "Coding AI")
	require.NoError(t, err)
	assert.Equal(t, category.ID, acme.CategoryID)

	queue, err := store.Discovered.ListByStatus(ctx, domain.DiscoveredStatusProcessed, 10)
	require.NoError(t, err)
	assert.Len(t, queue, 2)
}

func TestDiscoveryRunDuplicateSlugShortCircuits(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Tools.Create(ctx, &domain.Tool{
		Name: "Acme AI", Slug: "acme-ai", Status: domain.ToolStatusApproved,
	}))
	existing, err := store.Tools.GetBySlug(ctx, "acme-ai")
	require.NoError(t, err)

	searcher := &stubSearcher{results: map[string][]searchclient.Result{
		"q1": {{URL: "https://acme-mirror.io"}},
	}}
	scr := &stubScraper{pages: map[string]*scraper.ScrapedData{
		"https://acme-mirror.io": {URL: "https://acme-mirror.io", Name: "Acme AI"},
	}}
	cls := &stubClassifier{results: map[string]*classifier.Result{
		"https://acme-mirror.io": classified("Acme AI", 95),
	}}

	d := NewDiscovery(store, searcher, scr, cls, NopThrottle{}, []string{"q1"}, 5, logger.NewNop())
	metadata, err := d.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, metadata.Counts["duplicates"])
	assert.Zero(t, metadata.Counts["created"])

	processed, err := store.Discovered.ListByStatus(ctx, domain.DiscoveredStatusProcessed, 10)
	require.NoError(t, err)
	require.Len(t, processed, 1)
	require.NotNil(t, processed[0].ProcessedToolID)
	assert.Equal(t, existing.ID, *processed[0].ProcessedToolID, "points at the existing tool")
}

func TestDiscoveryRunIsolatesPerURLFailures(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()

	searcher := &stubSearcher{results: map[string][]searchclient.Result{
		"q1": {{URL: "https://broken.ai"}, {URL: "https://works.ai"}},
	}}
	scr := &stubScraper{
		pages: map[string]*scraper.ScrapedData{
			"https://works.ai": {URL: "https://works.ai", Name: "Works"},
		},
		errs: map[string]error{
			"https://broken.ai": errors.New("connection refused"),
		},
	}
	cls := &stubClassifier{results: map[string]*classifier.Result{
		"https://works.ai": classified("Works", 80),
	}}

	d := NewDiscovery(store, searcher, scr, cls, NopThrottle{}, []string{"q1"}, 5, logger.NewNop())
	metadata, err := d.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, metadata.Counts["failed"])
	assert.Equal(t, 1, metadata.Counts["processed"])
	require.Len(t, metadata.Errors, 1)
	assert.Contains(t, metadata.Errors[0], "https://broken.ai")

	failed, err := store.Discovered.ListByStatus(ctx, domain.DiscoveredStatusFailed, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].ErrorMessage, "connection refused")

	_, err = store.Tools.GetBySlug(ctx, "works")
	assert.NoError(t, err, "the batch continues past the failure")
}

func TestDiscoveryRunRediscoveryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()

	searcher := &stubSearcher{results: map[string][]searchclient.Result{
		"q1": {{URL: "https://acme.ai"}},
	}}
	scr := &stubScraper{pages: map[string]*scraper.ScrapedData{
		"https://acme.ai": {URL: "https://acme.ai", Name: "Acme AI"},
	}}
	cls := &stubClassifier{results: map[string]*classifier.Result{
		"https://acme.ai": classified("Acme AI", 90),
	}}

	d := NewDiscovery(store, searcher, scr, cls, NopThrottle{}, []string{"q1"}, 5, logger.NewNop())

	_, err := d.Run(ctx)
	require.NoError(t, err)
	second, err := d.Run(ctx)
	require.NoError(t, err)

	assert.Zero(t, second.Counts["queued"], "a processed URL is not re-queued")
	assert.Zero(t, second.Counts["created"])
}

func TestDiscoveryRunRecordsAutomationLog(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()

	searcher := &stubSearcher{err: errors.New("search down")}
	d := NewDiscovery(store, searcher, &stubScraper{}, &stubClassifier{}, NopThrottle{}, []string{"q1"}, 5, logger.NewNop())

	_, err := d.Run(ctx)
	require.NoError(t, err)

	logs, err := store.AutomationLogs.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.RunTypeDiscovery, logs[0].Type)
	assert.Equal(t, domain.RunStatusFailed, logs[0].Status, "nothing processed and errors recorded")
	assert.NotNil(t, logs[0].CompletedAt)
	require.Len(t, logs[0].Metadata.Errors, 1)
	assert.Contains(t, logs[0].Metadata.Errors[0], "search down")
}
