package repositories

import (
	"context"
	"knowledgehub-server/internal/domain/entities"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entities.Document) error
	GetByID(ctx context.Context, id string) (*entities.Document, error)
	Update(ctx context.Context, doc *entities.Document) error
	Delete(ctx context.Context, id string) error
	// Search runs the visibility-gated catalog query, or the
	// owner-scoped listing when filter.OwnerID is set.
	Search(ctx context.Context, filter *entities.DocumentFilter) (*entities.DocumentPage, error)
	Recent(ctx context.Context, page, size int) (*entities.DocumentPage, error)
	Popular(ctx context.Context, minRating float64, minViews, page, size int) (*entities.DocumentPage, error)
	IncrementViewCount(ctx context.Context, id string) error
	UpdateRatingStats(ctx context.Context, id string, stats entities.RatingSummary) error
}
