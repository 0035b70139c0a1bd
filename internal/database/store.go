package database

import "github.com/jmoiron/sqlx"

// NewStore wires all Postgres repositories over one connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		Tools:          NewToolRepository(db),
		Categories:     NewCategoryRepository(db),
		Discovered:     NewDiscoveredToolRepository(db),
		Metrics:        NewMetricsRepository(db),
		AutomationLogs: NewAutomationLogRepository(db),
		Submissions:    NewSubmissionRepository(db),
		Analytics:      NewAnalyticsRepository(db),
		Upvotes:        NewUpvoteRepository(db),
	}
}
