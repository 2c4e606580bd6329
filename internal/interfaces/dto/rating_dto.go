package dto

import (
	"time"

	"knowledgehub-server/internal/domain/entities"
)

type RateRequest struct {
	Score int `json:"score" binding:"required"`
}

// RateResponse echoes the stored rating plus the recomputed document
// aggregate, so the client can resynchronize in a single round trip.
type RateResponse struct {
	ID                    string    `json:"id"`
	Score                 int       `json:"score"`
	UserID                string    `json:"userId"`
	DocumentID            string    `json:"documentId"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
	DocumentAverageRating float64   `json:"documentAverageRating"`
	DocumentTotalRatings  int       `json:"documentTotalRatings"`
}

type UserRatingResponse struct {
	HasRating bool       `json:"hasRating"`
	Score     int        `json:"score,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type DocumentRatingsResponse struct {
	Ratings       []*entities.Rating `json:"ratings"`
	AverageRating float64            `json:"averageRating"`
	TotalRatings  int                `json:"totalRatings"`
}
