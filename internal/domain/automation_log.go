package domain

import "time"

// Automation run types.
const (
	RunTypeDiscovery = "discovery"
	RunTypeMetrics   = "metrics"
	RunTypeRefresh   = "refresh"
)

// Automation run status values.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
	RunStatusPartial = "partial"
)

// RunMetadata is the aggregate outcome of one automation run.
type RunMetadata struct {
	// Counts holds run-specific counters (discovered, processed, failed, ...).
	Counts map[string]int `json:"counts,omitempty"`
	// DurationMs is the wall-clock duration of the run in milliseconds.
	DurationMs int64 `json:"durationMs,omitempty"`
	// Errors holds the per-item error messages collected during the run.
	Errors []string `json:"errors,omitempty"`
	// Details holds per-item annotations, such as the changed-field names
	// the refresher applied per tool slug.
	Details map[string][]string `json:"details,omitempty"`
}

// AutomationLog records one pipeline run, created at start and
// finalized at the end. It is the only audit structure the pipeline has.
type AutomationLog struct {
	ID          string      `db:"id"           json:"id"`
	Type        string      `db:"type"         json:"type"`
	Status      string      `db:"status"       json:"status"`
	Metadata    RunMetadata `db:"-"            json:"metadata"`
	StartedAt   time.Time   `db:"started_at"   json:"startedAt"`
	CompletedAt *time.Time  `db:"completed_at" json:"completedAt,omitempty"`
}
