package repositories

import (
	"context"
	"knowledgehub-server/internal/domain/entities"
)

type RatingRepository interface {
	// Upsert inserts the rating or replaces the score of the existing
	// (user, document) rating, returning the stored row.
	Upsert(ctx context.Context, rating *entities.Rating) (*entities.Rating, error)
	GetByID(ctx context.Context, id string) (*entities.Rating, error)
	GetByUserAndDocument(ctx context.Context, userID, documentID string) (*entities.Rating, error)
	ListByDocument(ctx context.Context, documentID string) ([]*entities.Rating, error)
	Delete(ctx context.Context, id string) error
}
