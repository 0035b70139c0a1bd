package domain

import "time"

// ToolMetrics is an append-only daily metrics snapshot for one tool.
// Rows are immutable history; the newest trend score is mirrored onto
// Tool.TrendPercentage.
type ToolMetrics struct {
	ID              string    `db:"id"               json:"id"`
	ToolID          string    `db:"tool_id"          json:"toolId"`
	Date            time.Time `db:"date"             json:"date"`
	DailyViews      int       `db:"daily_views"      json:"dailyViews"`
	WeeklyViews     int       `db:"weekly_views"     json:"weeklyViews"`
	MonthlyViews    int       `db:"monthly_views"    json:"monthlyViews"`
	GitHubStars     int       `db:"github_stars"     json:"githubStars"`
	TrafficScore    float64   `db:"traffic_score"    json:"trafficScore"`
	TrendScore      float64   `db:"trend_score"      json:"trendScore"`
	PopularityScore float64   `db:"popularity_score" json:"popularityScore"`
	SerpPosition    *int      `db:"serp_position"    json:"serpPosition,omitempty"`
	CreatedAt       time.Time `db:"created_at"       json:"createdAt"`
}
