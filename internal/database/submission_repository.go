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

const submissionColumns = "id, name, website, tagline, description, category_id, email, status, created_at"

// SubmissionRepository handles user-submitted tool candidates.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a pending submission.
func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = domain.SubmissionStatusPending
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO submissions (id, name, website, tagline, description,
		                         category_id, email, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Website, s.Tagline, s.Description,
		s.CategoryID, s.Email, s.Status, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetByID returns a submission by id.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions WHERE id = $1"

	s, err := scanSubmission(r.db.QueryRowxContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}
	return s, nil
}

// List returns submissions, optionally filtered by status, newest first.
func (r *SubmissionRepository) List(ctx context.Context, status string, limit int) ([]*domain.Submission, error) {
	query := "SELECT " + submissionColumns + " FROM submissions"
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var items []*domain.Submission
	for rows.Next() {
		s, scanErr := scanSubmission(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan submission: %w", scanErr)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return items, nil
}

// UpdateStatus moves a submission into approved or rejected.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE submissions SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var (
		s          domain.Submission
		categoryID sql.NullString
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.Website, &s.Tagline, &s.Description,
		&categoryID, &s.Email, &s.Status, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CategoryID = categoryID.String
	return &s, nil
}
