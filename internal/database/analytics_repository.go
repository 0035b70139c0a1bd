package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/toolscout/internal/domain"
)

// AnalyticsRepository handles the raw analytics event log.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new analytics repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Insert appends one raw event.
func (r *AnalyticsRepository) Insert(ctx context.Context, event *domain.AnalyticsEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO analytics_events (id, tool_id, event_type, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.ToolID, event.EventType, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

// CountViewsSince counts view events for a tool newer than since.
func (r *AnalyticsRepository) CountViewsSince(ctx context.Context, toolID string, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM analytics_events
		WHERE tool_id = $1 AND event_type = $2 AND created_at >= $3
	`
	err := r.db.QueryRowContext(ctx, query, toolID, domain.EventTypeView, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count views: %w", err)
	}
	return count, nil
}

// UpvoteRepository handles upvote rows.
type UpvoteRepository struct {
	db *sqlx.DB
}

// NewUpvoteRepository creates a new upvote repository.
func NewUpvoteRepository(db *sqlx.DB) *UpvoteRepository {
	return &UpvoteRepository{db: db}
}

// Create records an upvote. Returns false when this visitor has already
// upvoted the tool; the unique constraint makes repeat votes no-ops.
func (r *UpvoteRepository) Create(ctx context.Context, toolID, visitorID string) (bool, error) {
	query := `
		INSERT INTO upvotes (id, tool_id, visitor_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tool_id, visitor_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query,
		uuid.New().String(), toolID, visitorID, time.Now())
	if err != nil {
		return false, fmt.Errorf("insert upvote: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
