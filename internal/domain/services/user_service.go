package services

import (
	"context"
	"time"

	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/repositories"
	"knowledgehub-server/internal/utils"
	"knowledgehub-server/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService covers the admin-only user lifecycle. Authorization
// (ADMIN role) is enforced in the handler layer; the one rule owned
// here is that admins cannot delete their own account.
type UserService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) List(ctx context.Context, filter *entities.UserFilter) ([]*entities.User, int64, error) {
	if filter.Size <= 0 {
		filter.Size = 10
	}
	if filter.Page < 0 {
		filter.Page = 0
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, errors.NewInternalError("failed to list users")
	}
	return users, total, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewNotFoundError("user not found")
	}
	return user, nil
}

func (s *UserService) DocumentCount(ctx context.Context, userID string) int {
	count, err := s.userRepo.CountDocuments(ctx, userID)
	if err != nil {
		return 0
	}
	return count
}

func (s *UserService) Create(ctx context.Context, username, password, fullName, email string) (*entities.User, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, errors.NewBadRequestError("username already exists")
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, errors.NewBadRequestError("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password")
	}

	user := &entities.User{
		ID:               uuid.NewString(),
		Username:         username,
		Password:         string(hashedPassword),
		FullName:         fullName,
		Email:            email,
		Roles:            []string{"USER"},
		Enabled:          true,
		AccountNonLocked: true,
		CreatedAt:        time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.NewInternalError("failed to create user")
	}

	return user, nil
}

// UserUpdate carries the optional admin-editable fields; nil means
// leave unchanged.
type UserUpdate struct {
	Email            *string
	FullName         *string
	Enabled          *bool
	AccountNonLocked *bool
}

func (s *UserService) Update(ctx context.Context, id string, upd UserUpdate) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	if upd.Email != nil && *upd.Email != "" {
		if err := utils.ValidateEmail(*upd.Email); err != nil {
			return nil, errors.NewBadRequestError(err.Error())
		}
		if existing, err := s.userRepo.GetByEmail(ctx, *upd.Email); err == nil && existing.ID != id {
			return nil, errors.NewBadRequestError("email already exists")
		}
		user.Email = *upd.Email
	}
	if upd.FullName != nil {
		user.FullName = *upd.FullName
	}
	if upd.Enabled != nil {
		user.Enabled = *upd.Enabled
	}
	if upd.AccountNonLocked != nil {
		user.AccountNonLocked = *upd.AccountNonLocked
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.NewInternalError("failed to update user")
	}

	return user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, id, password string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return errors.NewNotFoundError("user not found")
	}

	if err := utils.ValidatePassword(password); err != nil {
		return errors.NewBadRequestError(err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.NewInternalError("failed to hash password")
	}

	user.Password = string(hashedPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return errors.NewInternalError("failed to update password")
	}

	return nil
}

// SetBlocked toggles both the lock and enabled flags together, the way
// the admin console's block button behaves.
func (s *UserService) SetBlocked(ctx context.Context, id string, blocked bool) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	user.AccountNonLocked = !blocked
	user.Enabled = !blocked

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.NewInternalError("failed to update user")
	}

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string, actor *entities.User) error {
	if actor.ID == id {
		return errors.NewBadRequestError("cannot delete your own account")
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return errors.NewNotFoundError("user not found")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete user")
	}

	return nil
}
