package automation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/toolscout/internal/classifier"
	"github.com/jonesrussell/toolscout/internal/database"
	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
	"github.com/jonesrussell/toolscout/internal/scraper"
	"github.com/jonesrussell/toolscout/internal/searchclient"
)

// approveThreshold is the classifier confidence above which a discovered
// tool is published without review.
const approveThreshold = 70

// DefaultQueries is the fixed discovery query list.
var DefaultQueries = []string{
	"best new AI tools",
	"AI productivity tools launch",
	"new AI writing assistant",
	"AI coding assistant tool",
	"AI image generation tool",
	"new AI startup tool launch",
}

// excludedDomains filters search hits that are never tool homepages.
var excludedDomains = []string{
	"twitter.com", "x.com", "facebook.com", "instagram.com", "linkedin.com",
	"reddit.com", "youtube.com", "tiktok.com", "pinterest.com",
	"wikipedia.org", "wikimedia.org", "medium.com", "quora.com",
	"producthunt.com", "news.ycombinator.com", "google.com",
}

// Searcher is the search-API surface discovery needs.
type Searcher interface {
	Search(ctx context.Context, query string, opts searchclient.Options) ([]searchclient.Result, error)
}

// PageScraper is the scraping surface the pipeline needs.
type PageScraper interface {
	Scrape(ctx context.Context, pageURL string) (*scraper.ScrapedData, error)
}

// ToolClassifier is the classification surface the pipeline needs.
type ToolClassifier interface {
	Classify(ctx context.Context, data *scraper.ScrapedData) *classifier.Result
}

// Discovery finds candidate tool URLs and drives them through
// scrape -> classify -> persist, one state transition at a time.
type Discovery struct {
	store      *database.Store
	searcher   Searcher
	scraper    PageScraper
	classifier ToolClassifier
	throttle   Throttle
	queries    []string
	batchSize  int
	logger     logger.Logger
}

// NewDiscovery wires the discovery orchestrator. queries defaults to
// DefaultQueries when empty.
func NewDiscovery(
	store *database.Store,
	searcher Searcher,
	pageScraper PageScraper,
	toolClassifier ToolClassifier,
	throttle Throttle,
	queries []string,
	batchSize int,
	log logger.Logger,
) *Discovery {
	if len(queries) == 0 {
		queries = DefaultQueries
	}
	if batchSize <= 0 {
		batchSize = 5
	}
	if throttle == nil {
		throttle = NopThrottle{}
	}
	return &Discovery{
		store:      store,
		searcher:   searcher,
		scraper:    pageScraper,
		classifier: toolClassifier,
		throttle:   throttle,
		queries:    queries,
		batchSize:  batchSize,
		logger:     log,
	}
}

// Run executes one discovery pass and records it in the automation log.
func (d *Discovery) Run(ctx context.Context) (*domain.RunMetadata, error) {
	return audited(ctx, d.store.AutomationLogs, d.logger, domain.RunTypeDiscovery, "processed",
		func(ctx context.Context, outcome *runOutcome) error {
			d.collectCandidates(ctx, outcome)
			return d.processBatch(ctx, outcome)
		})
}

// collectCandidates runs every query, filters and dedupes the hits, and
// queues unseen URLs as discovered. Query failures are recorded and skipped.
func (d *Discovery) collectCandidates(ctx context.Context, outcome *runOutcome) {
	seen := make(map[string]bool)
	for _, query := range d.queries {
		if err := d.throttle.Wait(ctx); err != nil {
			outcome.addError(fmt.Sprintf("throttle: %v", err))
			return
		}

		results, err := d.searcher.Search(ctx, query, searchclient.Options{})
		if err != nil {
			d.logger.Warn("discovery query failed",
				logger.String("query", query), logger.Error(err))
			outcome.addError(fmt.Sprintf("query %q: %v", query, err))
			continue
		}

		for _, result := range results {
			candidate, ok := normalizeCandidateURL(result.URL)
			if !ok || seen[candidate] {
				continue
			}
			seen[candidate] = true
			outcome.count("candidates")

			inserted, err := d.store.Discovered.InsertIfNew(ctx, candidate, "search:"+query)
			if err != nil {
				outcome.addError(fmt.Sprintf("queue %s: %v", candidate, err))
				continue
			}
			if inserted {
				outcome.count("queued")
			}
		}
	}
}

// processBatch pulls a bounded batch of discovered URLs and processes each
// in isolation.
func (d *Discovery) processBatch(ctx context.Context, outcome *runOutcome) error {
	batch, err := d.store.Discovered.ListByStatus(ctx, domain.DiscoveredStatusDiscovered, d.batchSize)
	if err != nil {
		return fmt.Errorf("list discovered batch: %w", err)
	}

	for _, item := range batch {
		if err := d.processOne(ctx, item, outcome); err != nil {
			outcome.count("failed")
			outcome.addError(fmt.Sprintf("%s: %v", item.URL, err))

			if markErr := d.store.Discovered.MarkFailed(ctx, item.ID, err.Error()); markErr != nil {
				d.logger.Error("failed to mark discovery item failed",
					logger.String("url", item.URL), logger.Error(markErr))
			}
		}
	}
	return nil
}

// processOne advances one URL through processing -> processed, returning an
// error to have the caller mark it failed.
func (d *Discovery) processOne(ctx context.Context, item *domain.DiscoveredTool, outcome *runOutcome) error {
	if err := d.store.Discovered.MarkProcessing(ctx, item.ID); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	data, err := d.scraper.Scrape(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	result := d.classifier.Classify(ctx, data)
	if result.Name == "" {
		return fmt.Errorf("classification produced no name")
	}

	rawData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode raw data: %w", err)
	}

	slug := domain.Slugify(result.Name)
	if existing, err := d.store.Tools.GetBySlug(ctx, slug); err == nil {
		// Same product under a different URL: point at the existing tool.
		outcome.count("duplicates")
		outcome.count("processed")
		return d.store.Discovered.MarkProcessed(ctx, item.ID, existing.ID, rawData)
	} else if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("check slug %s: %w", slug, err)
	}

	category, err := d.store.Categories.GetOrCreate(ctx, result.Categories[0])
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}

	tool := buildTool(item.URL, slug, category.ID, data, result)
	if err := d.store.Tools.Create(ctx, tool); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// Lost a race with another insert of the same slug.
			if existing, lookupErr := d.store.Tools.GetBySlug(ctx, slug); lookupErr == nil {
				outcome.count("duplicates")
				outcome.count("processed")
				return d.store.Discovered.MarkProcessed(ctx, item.ID, existing.ID, rawData)
			}
		}
		return fmt.Errorf("insert tool: %w", err)
	}

	if err := d.store.Discovered.MarkProcessed(ctx, item.ID, tool.ID, rawData); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	outcome.count("processed")
	outcome.count("created")
	d.logger.Info("discovered new tool",
		logger.String("name", tool.Name),
		logger.String("slug", tool.Slug),
		logger.String("status", tool.Status),
		logger.Int("confidence", result.Confidence),
	)
	return nil
}

// buildTool merges the scraped record and classification into a new tool row.
func buildTool(pageURL, slug, categoryID string, data *scraper.ScrapedData, result *classifier.Result) *domain.Tool {
	status := domain.ToolStatusPending
	if result.Confidence > approveThreshold {
		status = domain.ToolStatusApproved
	}

	now := time.Now()
	return &domain.Tool{
		ID:          uuid.NewString(),
		Name:        result.Name,
		Slug:        slug,
		Tagline:     result.Tagline,
		Description: result.Description,
		Logo:        data.Logo,
		CategoryID:  categoryID,
		Website:     pageURL,
		Twitter:     data.Twitter,
		GitHub:      data.GitHub,
		Status:      status,
		Screenshots: data.Screenshots,
		Pricing:     &data.Pricing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// normalizeCandidateURL canonicalizes a search hit and rejects blocklisted
// or non-HTTP URLs.
func normalizeCandidateURL(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}

	host := strings.ToLower(strings.TrimPrefix(u.Host, "www."))
	for _, blocked := range excludedDomains {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return "", false
		}
	}

	u.Fragment = ""
	u.RawQuery = ""
	u.Host = host
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String(), true
}
