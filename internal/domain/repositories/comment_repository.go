package repositories

import (
	"context"
	"knowledgehub-server/internal/domain/entities"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entities.Comment) error
	GetByID(ctx context.Context, id string) (*entities.Comment, error)
	Update(ctx context.Context, comment *entities.Comment) error
	Delete(ctx context.Context, id string) error
	// ListByDocument returns the thread newest first.
	ListByDocument(ctx context.Context, documentID string, page, size int) (*entities.CommentPage, error)
}
