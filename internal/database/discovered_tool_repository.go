package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/toolscout/internal/domain"
)

const discoveredColumns = `id, url, source, status, raw_data,
	processed_tool_id, error_message, discovered_at, processed_at`

// DiscoveredToolRepository handles database operations for the discovery queue.
type DiscoveredToolRepository struct {
	db *sqlx.DB
}

// NewDiscoveredToolRepository creates a new discovered tool repository.
func NewDiscoveredToolRepository(db *sqlx.DB) *DiscoveredToolRepository {
	return &DiscoveredToolRepository{db: db}
}

// InsertIfNew inserts a discovered URL with status "discovered".
// Returns false when the URL is already known; re-discovery is a no-op.
func (r *DiscoveredToolRepository) InsertIfNew(ctx context.Context, url, source string) (bool, error) {
	query := `
		INSERT INTO discovered_tools (id, url, source, status, discovered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (url) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query,
		uuid.New().String(), url, source, domain.DiscoveredStatusDiscovered, time.Now())
	if err != nil {
		return false, fmt.Errorf("insert discovered tool: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListByStatus returns discovered tools in a given status, oldest first.
func (r *DiscoveredToolRepository) ListByStatus(ctx context.Context, status string, limit int) ([]*domain.DiscoveredTool, error) {
	query := "SELECT " + discoveredColumns + ` FROM discovered_tools
		WHERE status = $1
		ORDER BY discovered_at ASC
		LIMIT $2`
	return r.query(ctx, query, status, limit)
}

// List returns discovered tools newest first, for the operator API.
func (r *DiscoveredToolRepository) List(ctx context.Context, limit, offset int) ([]*domain.DiscoveredTool, error) {
	query := "SELECT " + discoveredColumns + ` FROM discovered_tools
		ORDER BY discovered_at DESC
		LIMIT $1 OFFSET $2`
	return r.query(ctx, query, limit, offset)
}

// MarkProcessing moves a row into the processing state.
func (r *DiscoveredToolRepository) MarkProcessing(ctx context.Context, id string) error {
	return r.exec(ctx, id,
		"UPDATE discovered_tools SET status = $2, error_message = '' WHERE id = $1",
		id, domain.DiscoveredStatusProcessing)
}

// MarkProcessed finalizes a row, pointing it at the tool it produced or
// matched. rawData preserves the scraped payload for operator inspection.
func (r *DiscoveredToolRepository) MarkProcessed(ctx context.Context, id, toolID string, rawData json.RawMessage) error {
	return r.exec(ctx, id, `
		UPDATE discovered_tools
		SET status = $2, processed_tool_id = $3, raw_data = $4, processed_at = $5
		WHERE id = $1`,
		id, domain.DiscoveredStatusProcessed, toolID, []byte(rawData), time.Now())
}

// MarkFailed finalizes a row with an error message. The next discovery run
// may reprocess it; there is no in-run retry.
func (r *DiscoveredToolRepository) MarkFailed(ctx context.Context, id, errorMessage string) error {
	return r.exec(ctx, id, `
		UPDATE discovered_tools
		SET status = $2, error_message = $3, processed_at = $4
		WHERE id = $1`,
		id, domain.DiscoveredStatusFailed, errorMessage, time.Now())
}

func (r *DiscoveredToolRepository) exec(ctx context.Context, id, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update discovered tool: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("discovered tool %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *DiscoveredToolRepository) query(ctx context.Context, query string, args ...any) ([]*domain.DiscoveredTool, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query discovered tools: %w", err)
	}
	defer rows.Close()

	var items []*domain.DiscoveredTool
	for rows.Next() {
		var (
			item        domain.DiscoveredTool
			rawData     []byte
			toolID      sql.NullString
			errMsg      sql.NullString
			processedAt sql.NullTime
		)
		if scanErr := rows.Scan(
			&item.ID, &item.URL, &item.Source, &item.Status, &rawData,
			&toolID, &errMsg, &item.DiscoveredAt, &processedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan discovered tool: %w", scanErr)
		}

		item.RawData = rawData
		item.ErrorMessage = errMsg.String
		if toolID.Valid {
			item.ProcessedToolID = &toolID.String
		}
		if processedAt.Valid {
			t := processedAt.Time
			item.ProcessedAt = &t
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discovered tools: %w", err)
	}

	return items, nil
}
