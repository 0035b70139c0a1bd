package domain

import "time"

// Submission status values.
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// Submission is a user-submitted candidate tool awaiting admin review.
// Approval promotes it to a Tool; otherwise it is marked rejected.
type Submission struct {
	ID          string    `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	Website     string    `db:"website"     json:"website"`
	Tagline     string    `db:"tagline"     json:"tagline"`
	Description string    `db:"description" json:"description"`
	CategoryID  string    `db:"category_id" json:"categoryId,omitempty"`
	Email       string    `db:"email"       json:"email"`
	Status      string    `db:"status"      json:"status"`
	CreatedAt   time.Time `db:"created_at"  json:"createdAt"`
}
