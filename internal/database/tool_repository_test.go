package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/toolscout/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func toolRow(tool *domain.Tool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "tagline", "description", "logo", "category_id",
		"upvotes", "views", "views_week", "views_today", "trend_percentage",
		"website", "twitter", "github", "status", "screenshots", "pricing",
		"created_at", "updated_at",
	}).AddRow(
		tool.ID, tool.Name, tool.Slug, tool.Tagline, tool.Description,
		tool.Logo, tool.CategoryID, tool.Upvotes, tool.Views, tool.ViewsWeek,
		tool.ViewsToday, tool.TrendPercentage, tool.Website, tool.Twitter,
		tool.GitHub, tool.Status, []byte(`["https://x/shot.png"]`),
		[]byte(`{"model":"freemium"}`), tool.CreatedAt, tool.UpdatedAt,
	)
}

func TestToolRepositoryCreateMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewToolRepository(db)

	mock.ExpectExec("INSERT INTO tools").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "tools_slug_key"})

	err := repo.Create(context.Background(), &domain.Tool{
		Name: "Acme AI", Slug: "acme-ai", Website: "https://acme.ai",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolRepositoryCreateFillsDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewToolRepository(db)

	mock.ExpectExec("INSERT INTO tools").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tool := &domain.Tool{Name: "Acme AI", Slug: "acme-ai", Website: "https://acme.ai"}
	require.NoError(t, repo.Create(context.Background(), tool))

	assert.NotEmpty(t, tool.ID)
	assert.Equal(t, domain.ToolStatusPending, tool.Status)
	assert.False(t, tool.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolRepositoryGetBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewToolRepository(db)

	now := time.Now()
	stored := &domain.Tool{
		ID: "id-1", Name: "Acme AI", Slug: "acme-ai", CategoryID: "cat-1",
		Website: "https://acme.ai", Status: domain.ToolStatusApproved,
		CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectQuery("SELECT .+ FROM tools WHERE slug").
		WithArgs("acme-ai").
		WillReturnRows(toolRow(stored))

	tool, err := repo.GetBySlug(context.Background(), "acme-ai")
	require.NoError(t, err)
	assert.Equal(t, "Acme AI", tool.Name)
	assert.Equal(t, []string{"https://x/shot.png"}, tool.Screenshots)
	require.NotNil(t, tool.Pricing)
	assert.Equal(t, "freemium", tool.Pricing.Model)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolRepositoryGetBySlugNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewToolRepository(db)

	mock.ExpectQuery("SELECT .+ FROM tools WHERE slug").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolRepositoryUpdateFieldsRejectsUnknownColumn(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewToolRepository(db)

	err := repo.UpdateFields(context.Background(), "id-1", map[string]any{"status": "approved"})
	assert.Error(t, err, "status is not a refreshable column")
}

func TestToolRepositoryUpdateFieldsBuildsSortedQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewToolRepository(db)

	// Columns are applied in sorted order: logo before tagline.
	mock.ExpectExec(`UPDATE tools SET logo = \$2, tagline = \$3, updated_at = \$4 WHERE id = \$1`).
		WithArgs("id-1", "https://x/logo.png", "New tagline.", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateFields(context.Background(), "id-1", map[string]any{
		"tagline": "New tagline.",
		"logo":    "https://x/logo.png",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolRepositoryUpdateTrendMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewToolRepository(db)

	mock.ExpectExec("UPDATE tools SET trend_percentage").
		WithArgs("missing", 75.0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateTrend(context.Background(), "missing", 75)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscoveredRepositoryInsertIfNew(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDiscoveredToolRepository(db)

	mock.ExpectExec("INSERT INTO discovered_tools").
		WillReturnResult(sqlmock.NewResult(0, 1))
	inserted, err := repo.InsertIfNew(context.Background(), "https://new.ai", "search:q")
	require.NoError(t, err)
	assert.True(t, inserted)

	// Conflicting URL: ON CONFLICT DO NOTHING affects zero rows.
	mock.ExpectExec("INSERT INTO discovered_tools").
		WillReturnResult(sqlmock.NewResult(0, 0))
	inserted, err = repo.InsertIfNew(context.Background(), "https://new.ai", "search:q")
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.NoError(t, mock.ExpectationsWereMet())
}
