package cmd

import (
	"fmt"

	"github.com/jonesrussell/toolscout/internal/automation"
	"github.com/jonesrussell/toolscout/internal/classifier"
	"github.com/jonesrussell/toolscout/internal/config"
	"github.com/jonesrussell/toolscout/internal/database"
	"github.com/jonesrussell/toolscout/internal/githubclient"
	"github.com/jonesrussell/toolscout/internal/logger"
	"github.com/jonesrussell/toolscout/internal/scraper"
	"github.com/jonesrussell/toolscout/internal/searchclient"
)

// app bundles the shared wiring behind every command.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	store    *database.Store
	degraded bool
	close    func()

	search     *searchclient.Client
	scraper    *scraper.Scraper
	classifier *classifier.Classifier
	github     *githubclient.Client
}

// newApp builds the store and pipeline components. Without a DATABASE_URL
// the store degrades to the bundled in-memory sample catalog.
func newApp(cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, close: func() {}}

	if cfg.Database.Configured() {
		db, err := database.NewPostgresConnection(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.store = database.NewStore(db)
		a.close = func() { _ = db.Close() }
	} else {
		log.Warn("DATABASE_URL is not set; serving bundled sample data")
		a.store = database.NewSampleStore()
		a.degraded = true
	}

	a.search = searchclient.New(cfg.Search.BaseURL, cfg.Search.APIKey, nil)
	a.scraper = scraper.New(a.pageFetcher(), log)
	a.classifier = classifier.FromConfig(cfg.Classifier, log)
	a.github = githubclient.New(cfg.GitHub.Token, nil)

	return a, nil
}

// pageFetcher prefers the reader API and falls back to direct HTML fetching
// when no reader key is configured.
func (a *app) pageFetcher() scraper.PageFetcher {
	reader := scraper.NewReaderClient(a.cfg.Search.ReaderBaseURL, a.cfg.Search.APIKey, nil)
	if reader.Configured() {
		return reader
	}
	a.log.Warn("no reader API key configured; scraping raw HTML directly")
	return scraper.NewHTMLFetcher(nil)
}

func (a *app) discovery() *automation.Discovery {
	return automation.NewDiscovery(
		a.store, a.search, a.scraper, a.classifier,
		automation.NewThrottle(a.cfg.Automation.QueryDelay),
		nil, a.cfg.Automation.DiscoveryBatchSize, a.log,
	)
}

func (a *app) metricsUpdater() *automation.MetricsUpdater {
	return automation.NewMetricsUpdater(
		a.store, a.github, a.search,
		automation.NewThrottle(a.cfg.Automation.MetricsDelay), a.log,
	)
}

func (a *app) refresher() *automation.Refresher {
	return automation.NewRefresher(
		a.store, a.scraper, a.classifier,
		automation.NewThrottle(a.cfg.Automation.RefreshDelay),
		a.cfg.Automation.RefreshBatchSize, a.log,
	)
}
