// Package domain defines the core entities of the toolscout catalog.
package domain

import "time"

// Tool status values.
const (
	ToolStatusPending  = "pending"
	ToolStatusApproved = "approved"
	ToolStatusRejected = "rejected"
)

// PricingPlan describes a single plan of a tool's pricing.
type PricingPlan struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Pricing describes a tool's pricing model.
type Pricing struct {
	Model string        `json:"model"`
	Plans []PricingPlan `json:"plans,omitempty"`
}

// Tool is a cataloged AI product listing.
type Tool struct {
	ID              string    `db:"id"               json:"id"`
	Name            string    `db:"name"             json:"name"`
	Slug            string    `db:"slug"             json:"slug"`
	Tagline         string    `db:"tagline"          json:"tagline"`
	Description     string    `db:"description"      json:"description"`
	Logo            string    `db:"logo"             json:"logo,omitempty"`
	CategoryID      string    `db:"category_id"      json:"categoryId,omitempty"`
	Upvotes         int       `db:"upvotes"          json:"upvotes"`
	Views           int       `db:"views"            json:"views"`
	ViewsWeek       int       `db:"views_week"       json:"viewsWeek"`
	ViewsToday      int       `db:"views_today"      json:"viewsToday"`
	TrendPercentage float64   `db:"trend_percentage" json:"trendPercentage"`
	Website         string    `db:"website"          json:"website"`
	Twitter         string    `db:"twitter"          json:"twitter,omitempty"`
	GitHub          string    `db:"github"           json:"github,omitempty"`
	Status          string    `db:"status"           json:"status"`
	Screenshots     []string  `db:"-"                json:"screenshots,omitempty"`
	Pricing         *Pricing  `db:"-"                json:"pricing,omitempty"`
	CreatedAt       time.Time `db:"created_at"       json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at"       json:"updatedAt"`
}

// Category groups tools in the catalog.
type Category struct {
	ID          string    `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	Slug        string    `db:"slug"        json:"slug"`
	Icon        string    `db:"icon"        json:"icon,omitempty"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at"  json:"createdAt"`
}
