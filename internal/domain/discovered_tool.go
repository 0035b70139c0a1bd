package domain

import (
	"encoding/json"
	"time"
)

// Discovered tool status values. A URL moves
// discovered -> processing -> processed | failed.
const (
	DiscoveredStatusDiscovered = "discovered"
	DiscoveredStatusProcessing = "processing"
	DiscoveredStatusProcessed  = "processed"
	DiscoveredStatusFailed     = "failed"
)

// DiscoveredTool is a URL found by automated search, pending
// scrape and classification.
type DiscoveredTool struct {
	ID              string          `db:"id"                json:"id"`
	URL             string          `db:"url"               json:"url"`
	Source          string          `db:"source"            json:"source"`
	Status          string          `db:"status"            json:"status"`
	RawData         json.RawMessage `db:"raw_data"          json:"rawData,omitempty"`
	ProcessedToolID *string         `db:"processed_tool_id" json:"processedToolId,omitempty"`
	ErrorMessage    string          `db:"error_message"     json:"errorMessage,omitempty"`
	DiscoveredAt    time.Time       `db:"discovered_at"     json:"discoveredAt"`
	ProcessedAt     *time.Time      `db:"processed_at"      json:"processedAt,omitempty"`
}
