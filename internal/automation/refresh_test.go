package automation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/toolscout/internal/classifier"
	"github.com/jonesrussell/toolscout/internal/database"
	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
	"github.com/jonesrussell/toolscout/internal/scraper"
)

func seedRefreshableTool(t *testing.T, store *database.Store) *domain.Tool {
	t.Helper()
	tool := &domain.Tool{
		Name:        "Acme AI",
		Slug:        "acme-ai",
		Tagline:     "Old tagline.",
		Description: "Old description.",
		Logo:        "https://cdn.acme.ai/logo-v1.png",
		Website:     "https://acme.ai",
		Status:      domain.ToolStatusApproved,
		Pricing:     &domain.Pricing{Model: "freemium"},
	}
	require.NoError(t, store.Tools.Create(context.Background(), tool))
	return tool
}

func TestRefreshAppliesOnlyChangedFields(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	tool := seedRefreshableTool(t, store)

	scr := &stubScraper{pages: map[string]*scraper.ScrapedData{
		"https://acme.ai": {
			URL:     "https://acme.ai",
			Name:    "Acme AI",
			Logo:    "https://cdn.acme.ai/logo-v2.png", // changed
			Pricing: domain.Pricing{Model: "freemium"}, // unchanged
		},
	}}
	cls := &stubClassifier{results: map[string]*classifier.Result{
		"https://acme.ai": {
			Name:        "Acme AI",
			Tagline:     "New tagline.",       // changed
			Description: "Old description.",   // unchanged
			Categories:  []string{"Coding AI"},
			Confidence:  85,
		},
	}}

	r := NewRefresher(store, scr, cls, NopThrottle{}, 10, logger.NewNop())
	metadata, err := r.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, metadata.Counts["refreshed"])
	assert.Equal(t, 1, metadata.Counts["changed"])
	assert.ElementsMatch(t, []string{"tagline", "logo"}, metadata.Details["acme-ai"])

	updated, err := store.Tools.GetByID(ctx, tool.ID)
	require.NoError(t, err)
	assert.Equal(t, "New tagline.", updated.Tagline)
	assert.Equal(t, "https://cdn.acme.ai/logo-v2.png", updated.Logo)
	assert.Equal(t, "Old description.", updated.Description)
}

func TestRefreshIsIdempotentWhenNothingChanged(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	tool := seedRefreshableTool(t, store)

	scr := &stubScraper{pages: map[string]*scraper.ScrapedData{
		"https://acme.ai": {
			URL:     "https://acme.ai",
			Name:    "Acme AI",
			Logo:    tool.Logo,
			Pricing: domain.Pricing{Model: "freemium"},
		},
	}}
	cls := &stubClassifier{results: map[string]*classifier.Result{
		"https://acme.ai": {
			Name:        "Acme AI",
			Tagline:     tool.Tagline,
			Description: tool.Description,
			Categories:  []string{"Coding AI"},
			Confidence:  85,
		},
	}}

	r := NewRefresher(store, scr, cls, NopThrottle{}, 10, logger.NewNop())

	metadata, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, metadata.Counts["refreshed"])
	assert.Zero(t, metadata.Counts["changed"], "identical rescrape applies no update")
	assert.Empty(t, metadata.Details)

	again, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Counts["changed"])
}

func TestRefreshIsolatesPerToolFailures(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	seedRefreshableTool(t, store)

	broken := &domain.Tool{
		Name: "Broken", Slug: "broken",
		Website: "https://broken.ai",
		Status:  domain.ToolStatusApproved,
	}
	require.NoError(t, store.Tools.Create(ctx, broken))

	scr := &stubScraper{
		pages: map[string]*scraper.ScrapedData{
			"https://acme.ai": {URL: "https://acme.ai", Name: "Acme AI"},
		},
	}
	cls := &stubClassifier{}

	r := NewRefresher(store, scr, cls, NopThrottle{}, 10, logger.NewNop())
	metadata, err := r.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, metadata.Counts["refreshed"])
	assert.Equal(t, 1, metadata.Counts["failed"])
	require.Len(t, metadata.Errors, 1)
	assert.Contains(t, metadata.Errors[0], "broken")

	logs, err := store.AutomationLogs.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.RunStatusPartial, logs[0].Status)
}
