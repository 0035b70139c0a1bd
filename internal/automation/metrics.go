package automation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/toolscout/internal/database"
	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
	"github.com/jonesrussell/toolscout/internal/searchclient"
)

const metricsListLimit = 500

// StarFetcher is the GitHub surface the metrics updater needs.
type StarFetcher interface {
	Stars(ctx context.Context, repoURL string) (int, error)
}

// MetricsUpdater snapshots per-tool engagement metrics and derived scores.
type MetricsUpdater struct {
	store    *database.Store
	github   StarFetcher
	searcher Searcher // optional, enables SERP position lookups
	throttle Throttle
	logger   logger.Logger
	now      func() time.Time
}

// NewMetricsUpdater wires the metrics updater. github and searcher may be
// nil; the corresponding metrics are then skipped.
func NewMetricsUpdater(
	store *database.Store,
	github StarFetcher,
	searcher Searcher,
	throttle Throttle,
	log logger.Logger,
) *MetricsUpdater {
	if throttle == nil {
		throttle = NopThrottle{}
	}
	return &MetricsUpdater{
		store:    store,
		github:   github,
		searcher: searcher,
		throttle: throttle,
		logger:   log,
		now:      time.Now,
	}
}

// Run snapshots metrics for every approved tool.
func (m *MetricsUpdater) Run(ctx context.Context) (*domain.RunMetadata, error) {
	return audited(ctx, m.store.AutomationLogs, m.logger, domain.RunTypeMetrics, "updated",
		func(ctx context.Context, outcome *runOutcome) error {
			tools, err := m.store.Tools.List(ctx, database.ListToolsParams{
				Status: domain.ToolStatusApproved,
				Limit:  metricsListLimit,
			})
			if err != nil {
				return fmt.Errorf("list approved tools: %w", err)
			}

			for _, tool := range tools {
				if err := m.throttle.Wait(ctx); err != nil {
					outcome.addError(fmt.Sprintf("throttle: %v", err))
					return nil
				}
				if err := m.updateOne(ctx, tool); err != nil {
					outcome.count("failed")
					outcome.addError(fmt.Sprintf("%s: %v", tool.Slug, err))
					continue
				}
				outcome.count("updated")
			}
			return nil
		})
}

func (m *MetricsUpdater) updateOne(ctx context.Context, tool *domain.Tool) error {
	now := m.now()

	daily, err := m.store.Analytics.CountViewsSince(ctx, tool.ID, now.Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("count daily views: %w", err)
	}
	weekly, err := m.store.Analytics.CountViewsSince(ctx, tool.ID, now.Add(-7*24*time.Hour))
	if err != nil {
		return fmt.Errorf("count weekly views: %w", err)
	}
	monthly, err := m.store.Analytics.CountViewsSince(ctx, tool.ID, now.Add(-30*24*time.Hour))
	if err != nil {
		return fmt.Errorf("count monthly views: %w", err)
	}

	stars := m.fetchStars(ctx, tool)
	serp := m.serpPosition(ctx, tool)

	trend := 50.0
	if previous, err := m.store.Metrics.Latest(ctx, tool.ID); err == nil {
		trend = TrendScore(weekly, previous.WeeklyViews)
	} else if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("load previous snapshot: %w", err)
	}

	traffic := TrafficScore(daily, weekly, monthly)
	popularity := PopularityScore(tool.Views, tool.Upvotes, stars, traffic, trend)

	snapshot := &domain.ToolMetrics{
		ID:              uuid.NewString(),
		ToolID:          tool.ID,
		Date:            now,
		DailyViews:      daily,
		WeeklyViews:     weekly,
		MonthlyViews:    monthly,
		GitHubStars:     stars,
		TrafficScore:    traffic,
		TrendScore:      trend,
		PopularityScore: popularity,
		SerpPosition:    serp,
		CreatedAt:       now,
	}
	if err := m.store.Metrics.Insert(ctx, snapshot); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if err := m.store.Tools.UpdateTrend(ctx, tool.ID, trend); err != nil {
		return fmt.Errorf("update trend: %w", err)
	}
	if err := m.store.Tools.UpdateViewCounters(ctx, tool.ID, daily, weekly); err != nil {
		return fmt.Errorf("update view counters: %w", err)
	}
	return nil
}

// fetchStars looks up GitHub stars, treating any failure as zero.
func (m *MetricsUpdater) fetchStars(ctx context.Context, tool *domain.Tool) int {
	if m.github == nil || tool.GitHub == "" {
		return 0
	}
	stars, err := m.github.Stars(ctx, tool.GitHub)
	if err != nil {
		m.logger.Warn("github star lookup failed",
			logger.String("slug", tool.Slug), logger.Error(err))
		return 0
	}
	return stars
}

// serpPosition searches for the tool by name and returns the 1-based index
// of the first result on the tool's own domain, or nil.
func (m *MetricsUpdater) serpPosition(ctx context.Context, tool *domain.Tool) *int {
	if m.searcher == nil || tool.Website == "" {
		return nil
	}

	host := websiteHost(tool.Website)
	if host == "" {
		return nil
	}

	results, err := m.searcher.Search(ctx, tool.Name, searchclient.Options{})
	if err != nil {
		m.logger.Warn("serp lookup failed",
			logger.String("slug", tool.Slug), logger.Error(err))
		return nil
	}

	for i, result := range results {
		if websiteHost(result.URL) == host {
			position := i + 1
			return &position
		}
	}
	return nil
}

func websiteHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// TrafficScore scores recent view volume on a 0-100 scale.
func TrafficScore(daily, weekly, monthly int) float64 {
	return clamp(float64(daily)*2+float64(weekly)/2+float64(monthly)/10, 0, 100)
}

// TrendScore compares weekly views against the previous snapshot. A zero
// baseline is neutral; each 4% change moves the score one point from 50.
func TrendScore(weekly, previousWeekly int) float64 {
	if previousWeekly <= 0 {
		return 50
	}
	pctChange := float64(weekly-previousWeekly) / float64(previousWeekly) * 100
	return 50 + clamp(pctChange/4, -50, 50)
}

// PopularityScore blends lifetime engagement with the traffic and trend
// scores on a 0-100 scale.
func PopularityScore(views, upvotes, stars int, traffic, trend float64) float64 {
	return clamp(float64(views)/100+float64(upvotes)/2+float64(stars)/50+traffic/4+trend/4, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
