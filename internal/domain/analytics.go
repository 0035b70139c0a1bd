package domain

import "time"

// Analytics event types.
const (
	EventTypeView  = "view"
	EventTypeClick = "click"
)

// AnalyticsEvent is one raw view/click event for a tool. The metrics
// updater aggregates these into daily/weekly/monthly windows.
type AnalyticsEvent struct {
	ID        string    `db:"id"         json:"id"`
	ToolID    string    `db:"tool_id"    json:"toolId"`
	EventType string    `db:"event_type" json:"eventType"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Upvote is one visitor's upvote of a tool. The (tool, visitor) pair
// is unique so repeat votes are no-ops.
type Upvote struct {
	ID        string    `db:"id"         json:"id"`
	ToolID    string    `db:"tool_id"    json:"toolId"`
	VisitorID string    `db:"visitor_id" json:"visitorId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
