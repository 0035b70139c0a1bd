package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/toolscout/internal/domain"
)

// memData is the shared state behind the in-memory repositories. It backs
// degraded mode when no DATABASE_URL is configured, so the API keeps serving
// the bundled sample catalog, and it doubles as a test fixture.
type memData struct {
	mu sync.RWMutex

	tools       map[string]*domain.Tool
	categories  map[string]*domain.Category
	discovered  map[string]*domain.DiscoveredTool
	metrics     []*domain.ToolMetrics
	logs        map[string]*domain.AutomationLog
	submissions map[string]*domain.Submission
	events      []*domain.AnalyticsEvent
	upvotes     map[string]bool // toolID + "/" + visitorID
}

// NewMemoryStore creates an empty in-memory Store.
func NewMemoryStore() *Store {
	d := &memData{
		tools:       make(map[string]*domain.Tool),
		categories:  make(map[string]*domain.Category),
		discovered:  make(map[string]*domain.DiscoveredTool),
		logs:        make(map[string]*domain.AutomationLog),
		submissions: make(map[string]*domain.Submission),
		upvotes:     make(map[string]bool),
	}
	return &Store{
		Tools:          &memToolRepo{d: d},
		Categories:     &memCategoryRepo{d: d},
		Discovered:     &memDiscoveredRepo{d: d},
		Metrics:        &memMetricsRepo{d: d},
		AutomationLogs: &memLogRepo{d: d},
		Submissions:    &memSubmissionRepo{d: d},
		Analytics:      &memAnalyticsRepo{d: d},
		Upvotes:        &memUpvoteRepo{d: d},
	}
}

// --- tools ---

type memToolRepo struct{ d *memData }

func (r *memToolRepo) Create(_ context.Context, tool *domain.Tool) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for _, existing := range r.d.tools {
		if existing.Slug == tool.Slug {
			return fmt.Errorf("slug %q: %w", tool.Slug, ErrDuplicate)
		}
	}

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

	clone := *tool
	r.d.tools[tool.ID] = &clone
	return nil
}

func (r *memToolRepo) GetByID(_ context.Context, id string) (*domain.Tool, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	tool, ok := r.d.tools[id]
	if !ok {
		return nil, fmt.Errorf("tool id=%s: %w", id, ErrNotFound)
	}
	clone := *tool
	return &clone, nil
}

func (r *memToolRepo) GetBySlug(_ context.Context, slug string) (*domain.Tool, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	for _, tool := range r.d.tools {
		if tool.Slug == slug {
			clone := *tool
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("tool slug=%s: %w", slug, ErrNotFound)
}

func (r *memToolRepo) List(_ context.Context, params ListToolsParams) ([]*domain.Tool, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	var tools []*domain.Tool
	for _, tool := range r.d.tools {
		if params.Status != "" && tool.Status != params.Status {
			continue
		}
		if params.CategoryID != "" && tool.CategoryID != params.CategoryID {
			continue
		}
		clone := *tool
		tools = append(tools, &clone)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].CreatedAt.After(tools[j].CreatedAt)
	})
	return page(tools, params.Limit, params.Offset), nil
}

func (r *memToolRepo) ListStaleApproved(_ context.Context, limit int) ([]*domain.Tool, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	var tools []*domain.Tool
	for _, tool := range r.d.tools {
		if tool.Status != domain.ToolStatusApproved {
			continue
		}
		clone := *tool
		tools = append(tools, &clone)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].UpdatedAt.Before(tools[j].UpdatedAt)
	})
	return page(tools, limit, 0), nil
}

func (r *memToolRepo) Search(_ context.Context, query string, limit int) ([]*domain.Tool, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	q := strings.ToLower(query)
	var tools []*domain.Tool
	for _, tool := range r.d.tools {
		if tool.Status != domain.ToolStatusApproved {
			continue
		}
		if strings.Contains(strings.ToLower(tool.Name), q) ||
			strings.Contains(strings.ToLower(tool.Tagline), q) ||
			strings.Contains(strings.ToLower(tool.Description), q) {
			clone := *tool
			tools = append(tools, &clone)
		}
	}
	sort.Slice(tools, func(i, j int) bool {
		if tools[i].Upvotes != tools[j].Upvotes {
			return tools[i].Upvotes > tools[j].Upvotes
		}
		return tools[i].Views > tools[j].Views
	})
	return page(tools, limit, 0), nil
}

func (r *memToolRepo) Update(_ context.Context, tool *domain.Tool) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	existing, ok := r.d.tools[tool.ID]
	if !ok {
		return fmt.Errorf("tool %s: %w", tool.ID, ErrNotFound)
	}

	tool.CreatedAt = existing.CreatedAt
	tool.UpdatedAt = time.Now()
	clone := *tool
	r.d.tools[tool.ID] = &clone
	return nil
}

func (r *memToolRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	tool, ok := r.d.tools[id]
	if !ok {
		return fmt.Errorf("tool %s: %w", id, ErrNotFound)
	}

	for col, val := range fields {
		switch col {
		case "tagline":
			tool.Tagline, _ = val.(string)
		case "description":
			tool.Description, _ = val.(string)
		case "logo":
			tool.Logo, _ = val.(string)
		case "twitter":
			tool.Twitter, _ = val.(string)
		case "github":
			tool.GitHub, _ = val.(string)
		case "screenshots":
			if s, ok := val.([]string); ok {
				tool.Screenshots = s
			}
		case "pricing":
			if p, ok := val.(*domain.Pricing); ok {
				tool.Pricing = p
			}
		default:
			return fmt.Errorf("column %q is not updatable", col)
		}
	}
	tool.UpdatedAt = time.Now()
	return nil
}

func (r *memToolRepo) UpdateTrend(_ context.Context, id string, trend float64) error {
	return r.mutate(id, func(tool *domain.Tool) { tool.TrendPercentage = trend })
}

func (r *memToolRepo) UpdateViewCounters(_ context.Context, id string, today, week int) error {
	return r.mutate(id, func(tool *domain.Tool) {
		tool.ViewsToday = today
		tool.ViewsWeek = week
	})
}

func (r *memToolRepo) IncrementViews(_ context.Context, id string) error {
	return r.mutate(id, func(tool *domain.Tool) { tool.Views++ })
}

func (r *memToolRepo) IncrementUpvotes(_ context.Context, id string) error {
	return r.mutate(id, func(tool *domain.Tool) { tool.Upvotes++ })
}

func (r *memToolRepo) Delete(_ context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.tools[id]; !ok {
		return fmt.Errorf("tool %s: %w", id, ErrNotFound)
	}
	delete(r.d.tools, id)
	return nil
}

func (r *memToolRepo) mutate(id string, update func(*domain.Tool)) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	tool, ok := r.d.tools[id]
	if !ok {
		return fmt.Errorf("tool %s: %w", id, ErrNotFound)
	}
	update(tool)
	return nil
}

// --- categories ---

type memCategoryRepo struct{ d *memData }

func (r *memCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.createLocked(category)
	return nil
}

func (r *memCategoryRepo) createLocked(category *domain.Category) {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.Slug == "" {
		category.Slug = domain.Slugify(category.Name)
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	clone := *category
	r.d.categories[category.ID] = &clone
}

func (r *memCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	category, ok := r.d.categories[id]
	if !ok {
		return nil, fmt.Errorf("category id=%s: %w", id, ErrNotFound)
	}
	clone := *category
	return &clone, nil
}

func (r *memCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	for _, category := range r.d.categories {
		if category.Name == name {
			clone := *category
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("category name=%s: %w", name, ErrNotFound)
}

func (r *memCategoryRepo) GetOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	if category, err := r.GetByName(ctx, name); err == nil {
		return category, nil
	}

	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	category := &domain.Category{Name: name}
	r.createLocked(category)
	return category, nil
}

func (r *memCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	items := make([]*domain.Category, 0, len(r.d.categories))
	for _, category := range r.d.categories {
		clone := *category
		items = append(items, &clone)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.categories[id]; !ok {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	delete(r.d.categories, id)
	return nil
}

// --- discovered tools ---

type memDiscoveredRepo struct{ d *memData }

func (r *memDiscoveredRepo) InsertIfNew(_ context.Context, url, source string) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for _, item := range r.d.discovered {
		if item.URL == url {
			return false, nil
		}
	}

	item := &domain.DiscoveredTool{
		ID:           uuid.New().String(),
		URL:          url,
		Source:       source,
		Status:       domain.DiscoveredStatusDiscovered,
		DiscoveredAt: time.Now(),
	}
	r.d.discovered[item.ID] = item
	return true, nil
}

func (r *memDiscoveredRepo) ListByStatus(_ context.Context, status string, limit int) ([]*domain.DiscoveredTool, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	var items []*domain.DiscoveredTool
	for _, item := range r.d.discovered {
		if item.Status == status {
			clone := *item
			items = append(items, &clone)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].DiscoveredAt.Before(items[j].DiscoveredAt)
	})
	return page(items, limit, 0), nil
}

func (r *memDiscoveredRepo) List(_ context.Context, limit, offset int) ([]*domain.DiscoveredTool, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	items := make([]*domain.DiscoveredTool, 0, len(r.d.discovered))
	for _, item := range r.d.discovered {
		clone := *item
		items = append(items, &clone)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].DiscoveredAt.After(items[j].DiscoveredAt)
	})
	return page(items, limit, offset), nil
}

func (r *memDiscoveredRepo) MarkProcessing(_ context.Context, id string) error {
	return r.mutate(id, func(item *domain.DiscoveredTool) {
		item.Status = domain.DiscoveredStatusProcessing
		item.ErrorMessage = ""
	})
}

func (r *memDiscoveredRepo) MarkProcessed(_ context.Context, id, toolID string, rawData json.RawMessage) error {
	return r.mutate(id, func(item *domain.DiscoveredTool) {
		now := time.Now()
		item.Status = domain.DiscoveredStatusProcessed
		item.ProcessedToolID = &toolID
		item.RawData = rawData
		item.ProcessedAt = &now
	})
}

func (r *memDiscoveredRepo) MarkFailed(_ context.Context, id, errorMessage string) error {
	return r.mutate(id, func(item *domain.DiscoveredTool) {
		now := time.Now()
		item.Status = domain.DiscoveredStatusFailed
		item.ErrorMessage = errorMessage
		item.ProcessedAt = &now
	})
}

func (r *memDiscoveredRepo) mutate(id string, update func(*domain.DiscoveredTool)) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	item, ok := r.d.discovered[id]
	if !ok {
		return fmt.Errorf("discovered tool %s: %w", id, ErrNotFound)
	}
	update(item)
	return nil
}

// --- metrics snapshots ---

type memMetricsRepo struct{ d *memData }

func (r *memMetricsRepo) Insert(_ context.Context, snapshot *domain.ToolMetrics) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}
	clone := *snapshot
	r.d.metrics = append(r.d.metrics, &clone)
	return nil
}

func (r *memMetricsRepo) Latest(_ context.Context, toolID string) (*domain.ToolMetrics, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	var latest *domain.ToolMetrics
	for _, snapshot := range r.d.metrics {
		if snapshot.ToolID != toolID {
			continue
		}
		if latest == nil || snapshot.CreatedAt.After(latest.CreatedAt) {
			latest = snapshot
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("metrics for tool %s: %w", toolID, ErrNotFound)
	}
	clone := *latest
	return &clone, nil
}

func (r *memMetricsRepo) ListByTool(_ context.Context, toolID string, limit int) ([]*domain.ToolMetrics, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	var items []*domain.ToolMetrics
	for _, snapshot := range r.d.metrics {
		if snapshot.ToolID == toolID {
			clone := *snapshot
			items = append(items, &clone)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return page(items, limit, 0), nil
}

// --- automation logs ---

type memLogRepo struct{ d *memData }

func (r *memLogRepo) Start(_ context.Context, runType string) (*domain.AutomationLog, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	log := &domain.AutomationLog{
		ID:        uuid.New().String(),
		Type:      runType,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now(),
	}
	clone := *log
	r.d.logs[log.ID] = &clone
	return log, nil
}

func (r *memLogRepo) Finish(_ context.Context, id, status string, metadata domain.RunMetadata) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	log, ok := r.d.logs[id]
	if !ok {
		return fmt.Errorf("automation log %s: %w", id, ErrNotFound)
	}
	now := time.Now()
	log.Status = status
	log.Metadata = metadata
	log.CompletedAt = &now
	return nil
}

func (r *memLogRepo) List(_ context.Context, limit int) ([]*domain.AutomationLog, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	items := make([]*domain.AutomationLog, 0, len(r.d.logs))
	for _, log := range r.d.logs {
		clone := *log
		items = append(items, &clone)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartedAt.After(items[j].StartedAt)
	})
	return page(items, limit, 0), nil
}

// --- submissions ---

type memSubmissionRepo struct{ d *memData }

func (r *memSubmissionRepo) Create(_ context.Context, s *domain.Submission) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = domain.SubmissionStatusPending
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	clone := *s
	r.d.submissions[s.ID] = &clone
	return nil
}

func (r *memSubmissionRepo) GetByID(_ context.Context, id string) (*domain.Submission, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	s, ok := r.d.submissions[id]
	if !ok {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	clone := *s
	return &clone, nil
}

func (r *memSubmissionRepo) List(_ context.Context, status string, limit int) ([]*domain.Submission, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	var items []*domain.Submission
	for _, s := range r.d.submissions {
		if status != "" && s.Status != status {
			continue
		}
		clone := *s
		items = append(items, &clone)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return page(items, limit, 0), nil
}

func (r *memSubmissionRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	s, ok := r.d.submissions[id]
	if !ok {
		return fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	s.Status = status
	return nil
}

// --- analytics events ---

type memAnalyticsRepo struct{ d *memData }

func (r *memAnalyticsRepo) Insert(_ context.Context, event *domain.AnalyticsEvent) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	clone := *event
	r.d.events = append(r.d.events, &clone)
	return nil
}

func (r *memAnalyticsRepo) CountViewsSince(_ context.Context, toolID string, since time.Time) (int, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	count := 0
	for _, event := range r.d.events {
		if event.ToolID == toolID && event.EventType == domain.EventTypeView && !event.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// --- upvotes ---

type memUpvoteRepo struct{ d *memData }

func (r *memUpvoteRepo) Create(_ context.Context, toolID, visitorID string) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	key := toolID + "/" + visitorID
	if r.d.upvotes[key] {
		return false, nil
	}
	r.d.upvotes[key] = true
	return true, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
