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

// AutomationLogRepository handles run audit rows.
type AutomationLogRepository struct {
	db *sqlx.DB
}

// NewAutomationLogRepository creates a new automation log repository.
func NewAutomationLogRepository(db *sqlx.DB) *AutomationLogRepository {
	return &AutomationLogRepository{db: db}
}

// Start creates a running log row for a new pipeline run.
func (r *AutomationLogRepository) Start(ctx context.Context, runType string) (*domain.AutomationLog, error) {
	log := &domain.AutomationLog{
		ID:        uuid.New().String(),
		Type:      runType,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now(),
	}

	query := `
		INSERT INTO automation_logs (id, type, status, metadata, started_at)
		VALUES ($1, $2, $3, '{}', $4)
	`
	_, err := r.db.ExecContext(ctx, query, log.ID, log.Type, log.Status, log.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("insert automation log: %w", err)
	}
	return log, nil
}

// Finish finalizes a run with its status and aggregate metadata.
func (r *AutomationLogRepository) Finish(ctx context.Context, id, status string, metadata domain.RunMetadata) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal run metadata: %w", err)
	}

	query := `
		UPDATE automation_logs
		SET status = $2, metadata = $3, completed_at = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, status, metadataJSON, time.Now())
	if err != nil {
		return fmt.Errorf("finish automation log: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("automation log %s: %w", id, ErrNotFound)
	}
	return nil
}

// List returns automation logs, newest first.
func (r *AutomationLogRepository) List(ctx context.Context, limit int) ([]*domain.AutomationLog, error) {
	query := `
		SELECT id, type, status, metadata, started_at, completed_at
		FROM automation_logs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query automation logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.AutomationLog
	for rows.Next() {
		var (
			log          domain.AutomationLog
			metadataJSON []byte
			completedAt  sql.NullTime
		)
		if scanErr := rows.Scan(
			&log.ID, &log.Type, &log.Status, &metadataJSON,
			&log.StartedAt, &completedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan automation log: %w", scanErr)
		}

		if len(metadataJSON) > 0 {
			if unmarshalErr := json.Unmarshal(metadataJSON, &log.Metadata); unmarshalErr != nil {
				return nil, fmt.Errorf("unmarshal run metadata: %w", unmarshalErr)
			}
		}
		if completedAt.Valid {
			t := completedAt.Time
			log.CompletedAt = &t
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate automation logs: %w", err)
	}

	return logs, nil
}
