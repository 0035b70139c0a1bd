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

const categoryColumns = "id, name, slug, icon, description, created_at"

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.Slug == "" {
		category.Slug = domain.Slugify(category.Name)
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO categories (id, name, slug, icon, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.Name, category.Slug,
		category.Icon, category.Description, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID returns a category by id.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.getBy(ctx, "id", id)
}

// GetByName returns a category by its unique name.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.getBy(ctx, "name", name)
}

func (r *CategoryRepository) getBy(ctx context.Context, column, value string) (*domain.Category, error) {
	var category domain.Category
	query := fmt.Sprintf("SELECT %s FROM categories WHERE %s = $1", categoryColumns, column)

	err := r.db.QueryRowxContext(ctx, query, value).Scan(
		&category.ID, &category.Name, &category.Slug,
		&category.Icon, &category.Description, &category.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s=%s: %w", column, value, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &category, nil
}

// GetOrCreate resolves a category by name, creating it on first sight.
// A concurrent insert of the same name is resolved by re-reading.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	category, err := r.GetByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	category = &domain.Category{Name: name}
	if createErr := r.Create(ctx, category); createErr != nil {
		// Lost the race; the row should exist now.
		if existing, getErr := r.GetByName(ctx, name); getErr == nil {
			return existing, nil
		}
		return nil, createErr
	}
	return category, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := "SELECT " + categoryColumns + " FROM categories ORDER BY name ASC"

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var category domain.Category
		if scanErr := rows.Scan(
			&category.ID, &category.Name, &category.Slug,
			&category.Icon, &category.Description, &category.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan category: %w", scanErr)
		}
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return nil
}
