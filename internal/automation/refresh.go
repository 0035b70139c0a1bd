package automation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonesrussell/toolscout/internal/database"
	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
)

// Refresher re-scrapes approved tools on a rotation and applies only the
// fields whose values actually changed.
type Refresher struct {
	store      *database.Store
	scraper    PageScraper
	classifier ToolClassifier
	throttle   Throttle
	batchSize  int
	logger     logger.Logger
}

// NewRefresher wires the refresher.
func NewRefresher(
	store *database.Store,
	pageScraper PageScraper,
	toolClassifier ToolClassifier,
	throttle Throttle,
	batchSize int,
	log logger.Logger,
) *Refresher {
	if batchSize <= 0 {
		batchSize = 10
	}
	if throttle == nil {
		throttle = NopThrottle{}
	}
	return &Refresher{
		store:      store,
		scraper:    pageScraper,
		classifier: toolClassifier,
		throttle:   throttle,
		batchSize:  batchSize,
		logger:     log,
	}
}

// Run refreshes one batch of the oldest-updated approved tools.
func (r *Refresher) Run(ctx context.Context) (*domain.RunMetadata, error) {
	return audited(ctx, r.store.AutomationLogs, r.logger, domain.RunTypeRefresh, "refreshed",
		func(ctx context.Context, outcome *runOutcome) error {
			tools, err := r.store.Tools.ListStaleApproved(ctx, r.batchSize)
			if err != nil {
				return fmt.Errorf("list stale tools: %w", err)
			}

			for _, tool := range tools {
				if err := r.throttle.Wait(ctx); err != nil {
					outcome.addError(fmt.Sprintf("throttle: %v", err))
					return nil
				}

				changed, err := r.refreshOne(ctx, tool)
				if err != nil {
					outcome.count("failed")
					outcome.addError(fmt.Sprintf("%s: %v", tool.Slug, err))
					continue
				}

				outcome.count("refreshed")
				if len(changed) > 0 {
					outcome.count("changed")
					outcome.addDetail(tool.Slug, changed)
				}
			}
			return nil
		})
}

// refreshOne re-scrapes one tool and applies a partial update of the
// changed fields, returning their names.
func (r *Refresher) refreshOne(ctx context.Context, tool *domain.Tool) ([]string, error) {
	data, err := r.scraper.Scrape(ctx, tool.Website)
	if err != nil {
		return nil, fmt.Errorf("scrape: %w", err)
	}
	result := r.classifier.Classify(ctx, data)

	fields := make(map[string]any)
	var changed []string

	setIfChanged := func(column, stored, fresh string) {
		if fresh != "" && fresh != stored {
			fields[column] = fresh
			changed = append(changed, column)
		}
	}

	setIfChanged("tagline", tool.Tagline, result.Tagline)
	setIfChanged("description", tool.Description, result.Description)
	setIfChanged("logo", tool.Logo, data.Logo)
	setIfChanged("twitter", tool.Twitter, data.Twitter)
	setIfChanged("github", tool.GitHub, data.GitHub)

	if len(data.Screenshots) > 0 && !jsonEqual(tool.Screenshots, data.Screenshots) {
		fields["screenshots"] = data.Screenshots
		changed = append(changed, "screenshots")
	}
	if data.Pricing.Model != "" && !jsonEqual(tool.Pricing, &data.Pricing) {
		fields["pricing"] = &data.Pricing
		changed = append(changed, "pricing")
	}

	if len(fields) == 0 {
		return nil, nil
	}

	if err := r.store.Tools.UpdateFields(ctx, tool.ID, fields); err != nil {
		return nil, fmt.Errorf("apply update: %w", err)
	}

	r.logger.Info("refreshed tool",
		logger.String("slug", tool.Slug),
		logger.Strings("changed", changed),
	)
	return changed, nil
}

// jsonEqual compares two values by their JSON encoding, which tolerates
// *Pricing vs Pricing and nil vs empty slices coming from storage.
func jsonEqual(a, b any) bool {
	aJSON, errA := json.Marshal(a)
	bJSON, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aJSON) == string(bJSON)
}
