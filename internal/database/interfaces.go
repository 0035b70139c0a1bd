package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jonesrussell/toolscout/internal/domain"
)

// ListToolsParams filters and pages tool listings.
type ListToolsParams struct {
	Status     string
	CategoryID string
	Limit      int
	Offset     int
}

// ToolRepositoryInterface defines the contract for tool data access.
type ToolRepositoryInterface interface {
	Create(ctx context.Context, tool *domain.Tool) error
	GetByID(ctx context.Context, id string) (*domain.Tool, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tool, error)
	List(ctx context.Context, params ListToolsParams) ([]*domain.Tool, error)
	Update(ctx context.Context, tool *domain.Tool) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]*domain.Tool, error)

	// ListStaleApproved returns approved tools ordered by oldest updated_at,
	// used by the refresher rotation.
	ListStaleApproved(ctx context.Context, limit int) ([]*domain.Tool, error)

	// UpdateTrend copies the newest trend score onto the tool row.
	UpdateTrend(ctx context.Context, id string, trend float64) error

	// UpdateViewCounters refreshes the denormalized view windows.
	UpdateViewCounters(ctx context.Context, id string, today, week int) error

	// IncrementViews bumps the all-time view counter.
	IncrementViews(ctx context.Context, id string) error

	// IncrementUpvotes bumps the denormalized upvote counter.
	IncrementUpvotes(ctx context.Context, id string) error
}

// CategoryRepositoryInterface defines the contract for category data access.
type CategoryRepositoryInterface interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Delete(ctx context.Context, id string) error

	// GetOrCreate resolves a category by name, creating it lazily when the
	// classifier produces a name the catalog has not seen.
	GetOrCreate(ctx context.Context, name string) (*domain.Category, error)
}

// DiscoveredToolRepositoryInterface defines the contract for the discovery queue.
type DiscoveredToolRepositoryInterface interface {
	// InsertIfNew inserts a discovered URL, returning false when the URL is
	// already known (idempotent re-discovery).
	InsertIfNew(ctx context.Context, url, source string) (bool, error)

	ListByStatus(ctx context.Context, status string, limit int) ([]*domain.DiscoveredTool, error)
	List(ctx context.Context, limit, offset int) ([]*domain.DiscoveredTool, error)

	MarkProcessing(ctx context.Context, id string) error
	MarkProcessed(ctx context.Context, id, toolID string, rawData json.RawMessage) error
	MarkFailed(ctx context.Context, id, errorMessage string) error
}

// MetricsRepositoryInterface defines the contract for metrics snapshots.
// Snapshots are append-only; there is no update operation by design.
type MetricsRepositoryInterface interface {
	Insert(ctx context.Context, m *domain.ToolMetrics) error
	Latest(ctx context.Context, toolID string) (*domain.ToolMetrics, error)
	ListByTool(ctx context.Context, toolID string, limit int) ([]*domain.ToolMetrics, error)
}

// AutomationLogRepositoryInterface defines the contract for run audit logs.
type AutomationLogRepositoryInterface interface {
	Start(ctx context.Context, runType string) (*domain.AutomationLog, error)
	Finish(ctx context.Context, id, status string, metadata domain.RunMetadata) error
	List(ctx context.Context, limit int) ([]*domain.AutomationLog, error)
}

// SubmissionRepositoryInterface defines the contract for user submissions.
type SubmissionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, status string, limit int) ([]*domain.Submission, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// AnalyticsRepositoryInterface defines the contract for the raw event log.
type AnalyticsRepositoryInterface interface {
	Insert(ctx context.Context, event *domain.AnalyticsEvent) error

	// CountViewsSince counts view events for a tool newer than since.
	CountViewsSince(ctx context.Context, toolID string, since time.Time) (int, error)
}

// UpvoteRepositoryInterface defines the contract for upvotes.
type UpvoteRepositoryInterface interface {
	// Create records an upvote, returning false when this visitor has
	// already upvoted the tool.
	Create(ctx context.Context, toolID, visitorID string) (bool, error)
}

// Store aggregates all repositories behind one value so the API server and
// pipeline runs share a single injection point.
type Store struct {
	Tools          ToolRepositoryInterface
	Categories     CategoryRepositoryInterface
	Discovered     DiscoveredToolRepositoryInterface
	Metrics        MetricsRepositoryInterface
	AutomationLogs AutomationLogRepositoryInterface
	Submissions    SubmissionRepositoryInterface
	Analytics      AnalyticsRepositoryInterface
	Upvotes        UpvoteRepositoryInterface
}
