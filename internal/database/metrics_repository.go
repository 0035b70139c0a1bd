package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/toolscout/internal/domain"
)

const metricsColumns = `id, tool_id, date, daily_views, weekly_views, monthly_views,
	github_stars, traffic_score, trend_score, popularity_score, serp_position, created_at`

// MetricsRepository handles the append-only tool_metrics history.
type MetricsRepository struct {
	db *sqlx.DB
}

// NewMetricsRepository creates a new metrics repository.
func NewMetricsRepository(db *sqlx.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Insert appends a snapshot row. Rows are never updated afterwards.
func (r *MetricsRepository) Insert(ctx context.Context, m *domain.ToolMetrics) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Date.IsZero() {
		m.Date = time.Now().Truncate(24 * time.Hour)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tool_metrics (id, tool_id, date, daily_views, weekly_views,
		                          monthly_views, github_stars, traffic_score,
		                          trend_score, popularity_score, serp_position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ToolID, m.Date, m.DailyViews, m.WeeklyViews, m.MonthlyViews,
		m.GitHubStars, m.TrafficScore, m.TrendScore, m.PopularityScore,
		m.SerpPosition, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tool metrics: %w", err)
	}
	return nil
}

// Latest returns the newest snapshot for a tool, or ErrNotFound when the
// tool has no history yet.
func (r *MetricsRepository) Latest(ctx context.Context, toolID string) (*domain.ToolMetrics, error) {
	query := "SELECT " + metricsColumns + ` FROM tool_metrics
		WHERE tool_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	m, err := scanMetrics(r.db.QueryRowxContext(ctx, query, toolID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("metrics for tool %s: %w", toolID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query latest metrics: %w", err)
	}
	return m, nil
}

// ListByTool returns snapshots for a tool, newest first.
func (r *MetricsRepository) ListByTool(ctx context.Context, toolID string, limit int) ([]*domain.ToolMetrics, error) {
	query := "SELECT " + metricsColumns + ` FROM tool_metrics
		WHERE tool_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryxContext(ctx, query, toolID, limit)
	if err != nil {
		return nil, fmt.Errorf("query tool metrics: %w", err)
	}
	defer rows.Close()

	var items []*domain.ToolMetrics
	for rows.Next() {
		m, scanErr := scanMetrics(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan tool metrics: %w", scanErr)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tool metrics: %w", err)
	}

	return items, nil
}

func scanMetrics(row rowScanner) (*domain.ToolMetrics, error) {
	var (
		m    domain.ToolMetrics
		serp sql.NullInt64
	)
	err := row.Scan(
		&m.ID, &m.ToolID, &m.Date, &m.DailyViews, &m.WeeklyViews, &m.MonthlyViews,
		&m.GitHubStars, &m.TrafficScore, &m.TrendScore, &m.PopularityScore,
		&serp, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if serp.Valid {
		pos := int(serp.Int64)
		m.SerpPosition = &pos
	}
	return &m, nil
}
