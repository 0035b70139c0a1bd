package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/toolscout/internal/domain"
)

const toolColumns = `id, name, slug, tagline, description, logo, category_id,
	upvotes, views, views_week, views_today, trend_percentage,
	website, twitter, github, status, screenshots, pricing,
	created_at, updated_at`

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// ToolRepository handles database operations for tools.
type ToolRepository struct {
	db *sqlx.DB
}

// NewToolRepository creates a new tool repository.
func NewToolRepository(db *sqlx.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

// Create inserts a new tool. Returns ErrDuplicate on slug collision.
func (r *ToolRepository) Create(ctx context.Context, tool *domain.Tool) error {
	if tool.ID == "" {
		tool.ID = uuid.New().String()
	}
	now := time.Now()
	if tool.CreatedAt.IsZero() {
		tool.CreatedAt = now
	}
	tool.UpdatedAt = now
	if tool.Status == "" {
		tool.Status = domain.ToolStatusPending
	}

	screenshotsJSON, pricingJSON, err := marshalToolJSON(tool)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tools (id, name, slug, tagline, description, logo, category_id,
		                   upvotes, views, views_week, views_today, trend_percentage,
		                   website, twitter, github, status, screenshots, pricing,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err = r.db.ExecContext(ctx, query,
		tool.ID, tool.Name, tool.Slug, tool.Tagline, tool.Description, tool.Logo,
		tool.CategoryID, tool.Upvotes, tool.Views, tool.ViewsWeek, tool.ViewsToday,
		tool.TrendPercentage, tool.Website, tool.Twitter, tool.GitHub, tool.Status,
		screenshotsJSON, pricingJSON, tool.CreatedAt, tool.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("slug %q: %w", tool.Slug, ErrDuplicate)
		}
		return fmt.Errorf("insert tool: %w", err)
	}

	return nil
}

// GetByID returns a tool by id.
func (r *ToolRepository) GetByID(ctx context.Context, id string) (*domain.Tool, error) {
	return r.getBy(ctx, "id", id)
}

// GetBySlug returns a tool by its unique slug.
func (r *ToolRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tool, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *ToolRepository) getBy(ctx context.Context, column, value string) (*domain.Tool, error) {
	query := fmt.Sprintf("SELECT %s FROM tools WHERE %s = $1", toolColumns, column)

	row := r.db.QueryRowxContext(ctx, query, value)
	tool, err := scanTool(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tool %s=%s: %w", column, value, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query tool: %w", err)
	}
	return tool, nil
}

// List returns tools matching the given filters, newest first.
func (r *ToolRepository) List(ctx context.Context, params ListToolsParams) ([]*domain.Tool, error) {
	var (
		conditions []string
		args       []any
	)

	if params.Status != "" {
		args = append(args, params.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.CategoryID != "" {
		args = append(args, params.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}

	query := "SELECT " + toolColumns + " FROM tools"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryTools(ctx, query, args...)
}

// ListStaleApproved returns approved tools ordered by oldest updated_at.
func (r *ToolRepository) ListStaleApproved(ctx context.Context, limit int) ([]*domain.Tool, error) {
	query := "SELECT " + toolColumns + ` FROM tools
		WHERE status = $1
		ORDER BY updated_at ASC
		LIMIT $2`
	return r.queryTools(ctx, query, domain.ToolStatusApproved, limit)
}

// Search matches the query against name, tagline and description.
func (r *ToolRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Tool, error) {
	pattern := "%" + query + "%"
	sqlQuery := "SELECT " + toolColumns + ` FROM tools
		WHERE status = $1
		  AND (name ILIKE $2 OR tagline ILIKE $2 OR description ILIKE $2)
		ORDER BY upvotes DESC, views DESC
		LIMIT $3`
	return r.queryTools(ctx, sqlQuery, domain.ToolStatusApproved, pattern, limit)
}

// Update replaces all mutable fields of a tool.
func (r *ToolRepository) Update(ctx context.Context, tool *domain.Tool) error {
	tool.UpdatedAt = time.Now()

	screenshotsJSON, pricingJSON, err := marshalToolJSON(tool)
	if err != nil {
		return err
	}

	query := `
		UPDATE tools
		SET name = $2, slug = $3, tagline = $4, description = $5, logo = $6,
		    category_id = NULLIF($7, ''), website = $8, twitter = $9, github = $10,
		    status = $11, screenshots = $12, pricing = $13, updated_at = $14
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		tool.ID, tool.Name, tool.Slug, tool.Tagline, tool.Description, tool.Logo,
		tool.CategoryID, tool.Website, tool.Twitter, tool.GitHub, tool.Status,
		screenshotsJSON, pricingJSON, tool.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tool: %w", err)
	}
	return requireRow(result, tool.ID)
}

// allowedUpdateColumns guards the partial-update path; the refresher only
// ever touches these.
var allowedUpdateColumns = map[string]bool{
	"tagline":     true,
	"description": true,
	"logo":        true,
	"screenshots": true,
	"pricing":     true,
	"twitter":     true,
	"github":      true,
}

// UpdateFields applies a partial update of the given columns plus updated_at.
// JSON-typed columns accept any value and are marshaled here.
func (r *ToolRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	columns := make([]string, 0, len(fields))
	for col := range fields {
		if !allowedUpdateColumns[col] {
			return fmt.Errorf("column %q is not updatable", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	setClauses := make([]string, 0, len(columns)+1)
	args := []any{id}
	for _, col := range columns {
		val := fields[col]
		if col == "screenshots" || col == "pricing" {
			data, err := json.Marshal(val)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", col, err)
			}
			val = data
		}
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	args = append(args, time.Now())
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf("UPDATE tools SET %s WHERE id = $1", strings.Join(setClauses, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update tool fields: %w", err)
	}
	return requireRow(result, id)
}

// UpdateTrend copies the newest trend score onto the tool row.
func (r *ToolRepository) UpdateTrend(ctx context.Context, id string, trend float64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tools SET trend_percentage = $2 WHERE id = $1", id, trend)
	if err != nil {
		return fmt.Errorf("update trend: %w", err)
	}
	return requireRow(result, id)
}

// UpdateViewCounters refreshes the denormalized view windows.
func (r *ToolRepository) UpdateViewCounters(ctx context.Context, id string, today, week int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tools SET views_today = $2, views_week = $3 WHERE id = $1", id, today, week)
	if err != nil {
		return fmt.Errorf("update view counters: %w", err)
	}
	return requireRow(result, id)
}

// IncrementViews bumps the all-time view counter.
func (r *ToolRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE tools SET views = views + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// IncrementUpvotes bumps the denormalized upvote counter.
func (r *ToolRepository) IncrementUpvotes(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE tools SET upvotes = upvotes + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("increment upvotes: %w", err)
	}
	return nil
}

// Delete removes a tool.
func (r *ToolRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tools WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete tool: %w", err)
	}
	return requireRow(result, id)
}

func (r *ToolRepository) queryTools(ctx context.Context, query string, args ...any) ([]*domain.Tool, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tools: %w", err)
	}
	defer rows.Close()

	var tools []*domain.Tool
	for rows.Next() {
		tool, scanErr := scanTool(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan tool: %w", scanErr)
		}
		tools = append(tools, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tools: %w", err)
	}

	return tools, nil
}

// rowScanner is satisfied by both *sqlx.Row and *sqlx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTool(row rowScanner) (*domain.Tool, error) {
	var (
		tool            domain.Tool
		categoryID      sql.NullString
		screenshotsJSON []byte
		pricingJSON     []byte
	)

	err := row.Scan(
		&tool.ID, &tool.Name, &tool.Slug, &tool.Tagline, &tool.Description,
		&tool.Logo, &categoryID, &tool.Upvotes, &tool.Views, &tool.ViewsWeek,
		&tool.ViewsToday, &tool.TrendPercentage, &tool.Website, &tool.Twitter,
		&tool.GitHub, &tool.Status, &screenshotsJSON, &pricingJSON,
		&tool.CreatedAt, &tool.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tool.CategoryID = categoryID.String

	if len(screenshotsJSON) > 0 {
		if err := json.Unmarshal(screenshotsJSON, &tool.Screenshots); err != nil {
			return nil, fmt.Errorf("unmarshal screenshots: %w", err)
		}
	}
	if len(pricingJSON) > 0 {
		var pricing domain.Pricing
		if err := json.Unmarshal(pricingJSON, &pricing); err != nil {
			return nil, fmt.Errorf("unmarshal pricing: %w", err)
		}
		tool.Pricing = &pricing
	}

	return &tool, nil
}

func marshalToolJSON(tool *domain.Tool) (screenshots, pricing []byte, err error) {
	screenshots, err = json.Marshal(tool.Screenshots)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal screenshots: %w", err)
	}
	pricing, err = json.Marshal(tool.Pricing)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal pricing: %w", err)
	}
	return screenshots, pricing, nil
}

func requireRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("tool %s: %w", id, ErrNotFound)
	}
	return nil
}
