package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/toolscout/internal/database"
	"github.com/jonesrussell/toolscout/internal/domain"
	"github.com/jonesrussell/toolscout/internal/logger"
)

func TestTrafficScore(t *testing.T) {
	assert.Equal(t, 0.0, TrafficScore(0, 0, 0))
	assert.Equal(t, 100.0, TrafficScore(100, 100, 100), "clamps at 100")
	assert.Equal(t, 10.0+5.0+1.0, TrafficScore(5, 10, 10))
}

func TestTrendScoreDoublingWeeklyViews(t *testing.T) {
	// Doubling weekly views is a +100% change: 50 + min(50, 100/4) = 75.
	assert.Equal(t, 75.0, TrendScore(200, 100))
}

func TestTrendScoreEdges(t *testing.T) {
	assert.Equal(t, 50.0, TrendScore(500, 0), "zero baseline is neutral")
	assert.Equal(t, 50.0, TrendScore(100, 100), "no change is neutral")
	assert.Equal(t, 100.0, TrendScore(1000, 100), "growth caps at 100")
	assert.Equal(t, 25.0, TrendScore(0, 100), "total collapse is -100%: 50 - 25")
}

func TestPopularityScoreClamps(t *testing.T) {
	assert.Equal(t, 100.0, PopularityScore(100000, 1000, 100000, 100, 100))
	assert.Equal(t, 25.0, PopularityScore(0, 0, 0, 50, 50))
}

type stubStars struct {
	stars int
	err   error
}

func (s *stubStars) Stars(context.Context, string) (int, error) { return s.stars, s.err }

func seedApprovedTool(t *testing.T, store *database.Store) *domain.Tool {
	t.Helper()
	tool := &domain.Tool{
		Name:    "Acme AI",
		Slug:    "acme-ai",
		Website: "https://acme.ai",
		GitHub:  "https://github.com/acme/ai",
		Status:  domain.ToolStatusApproved,
	}
	require.NoError(t, store.Tools.Create(context.Background(), tool))
	return tool
}

func seedViews(t *testing.T, store *database.Store, toolID string, n int, at time.Time) {
	t.Helper()
	for range n {
		require.NoError(t, store.Analytics.Insert(context.Background(), &domain.AnalyticsEvent{
			ToolID:    toolID,
			EventType: domain.EventTypeView,
			CreatedAt: at,
		}))
	}
}

func TestMetricsRunSnapshotsAndMirrorsTrend(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	tool := seedApprovedTool(t, store)
	seedViews(t, store, tool.ID, 3, time.Now().Add(-time.Hour))
	seedViews(t, store, tool.ID, 4, time.Now().Add(-3*24*time.Hour))

	// A previous snapshot with 14 weekly views against the current 7 is -50%.
	require.NoError(t, store.Metrics.Insert(ctx, &domain.ToolMetrics{
		ToolID:      tool.ID,
		WeeklyViews: 14,
		CreatedAt:   time.Now().Add(-24 * time.Hour),
	}))

	updater := NewMetricsUpdater(store, &stubStars{stars: 500}, nil, NopThrottle{}, logger.NewNop())
	metadata, err := updater.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, metadata.Counts["updated"])
	assert.Empty(t, metadata.Errors)

	latest, err := store.Metrics.Latest(ctx, tool.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.DailyViews)
	assert.Equal(t, 7, latest.WeeklyViews)
	assert.Equal(t, 500, latest.GitHubStars)
	assert.Equal(t, 37.5, latest.TrendScore, "-50% change: 50 - 50/4")

	updated, err := store.Tools.GetByID(ctx, tool.ID)
	require.NoError(t, err)
	assert.Equal(t, 37.5, updated.TrendPercentage)
	assert.Equal(t, 3, updated.ViewsToday)
	assert.Equal(t, 7, updated.ViewsWeek)
}

func TestMetricsRunFirstSnapshotDefaultsTrend(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	tool := seedApprovedTool(t, store)

	updater := NewMetricsUpdater(store, nil, nil, NopThrottle{}, logger.NewNop())
	_, err := updater.Run(ctx)
	require.NoError(t, err)

	latest, err := store.Metrics.Latest(ctx, tool.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, latest.TrendScore)
	assert.Equal(t, 0, latest.GitHubStars)
}

func TestMetricsRunStarLookupFailureIsZero(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	tool := seedApprovedTool(t, store)

	updater := NewMetricsUpdater(store, &stubStars{err: errors.New("rate limited")}, nil, NopThrottle{}, logger.NewNop())
	metadata, err := updater.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, metadata.Errors, "star failures never fail the tool")

	latest, err := store.Metrics.Latest(ctx, tool.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, latest.GitHubStars)
}
