package repositories

import (
	"context"
	"knowledgehub-server/internal/domain/entities"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *entities.UserFilter) ([]*entities.User, int64, error)
	CountDocuments(ctx context.Context, userID string) (int, error)
}
