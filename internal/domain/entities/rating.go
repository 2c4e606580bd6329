package entities

import "time"

// Rating is unique per (user, document) pair; submitting again
// replaces the previous score.
type Rating struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RatingSummary is the recomputed aggregate stored back on the document
// after every rating mutation.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}
