package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
)

// ScrapedData is the heuristically structured result of scraping one URL.
// It is the classifier's input and is persisted as the discovered tool's
// raw payload.
type ScrapedData struct {
	URL         string         `json:"url"`
	Name        string         `json:"name"`
	Tagline     string         `json:"tagline"`
	Description string         `json:"description"`
	Features    []string       `json:"features,omitempty"`
	Pricing     domain.Pricing `json:"pricing"`
	Logo        string         `json:"logo,omitempty"`
	Screenshots []string       `json:"screenshots,omitempty"`
	Twitter     string         `json:"twitter,omitempty"`
	GitHub      string         `json:"github,omitempty"`
	Docs        string         `json:"docs,omitempty"`
	RawText     string         `json:"rawText,omitempty"`
}

// PageFetcher fetches rendered page content for a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Page, error)
}

// Scraper turns a URL into ScrapedData via the reader API (or fallback
// fetcher) plus a fixed sequence of heuristic extractors.
type Scraper struct {
	fetcher PageFetcher
	logger  logger.Logger
}

// New creates a scraper over the given page fetcher.
func New(fetcher PageFetcher, log logger.Logger) *Scraper {
	return &Scraper{fetcher: fetcher, logger: log}
}

// Scrape fetches and extracts structured fields for pageURL.
// A network failure propagates as an error to the caller.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*ScrapedData, error) {
	page, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	data := ExtractFromPage(pageURL, page)

	s.logger.Debug("scraped page",
		logger.String("url", pageURL),
		logger.String("name", data.Name),
		logger.Int("features", len(data.Features)),
	)

	return data, nil
}

// ExtractFromPage applies the heuristic extractors to rendered page content.
func ExtractFromPage(pageURL string, page *Page) *ScrapedData {
	data := &ScrapedData{
		URL:     pageURL,
		RawText: page.Content,
	}

	data.Name = extractName(page)
	data.Tagline = extractTagline(page)
	data.Description = extractDescription(page)
	data.Features = extractFeatures(page.Content)
	data.Pricing = extractPricing(page.Content)
	data.Logo = extractLogo(page, pageURL)
	data.Screenshots = extractScreenshots(page)
	data.Twitter, data.GitHub, data.Docs = extractLinks(page)

	return data
}

// hostOf returns the hostname of a URL, stripped of a www. prefix.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
