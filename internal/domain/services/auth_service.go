package services

import (
	"context"
	"time"

	"knowledgehub-server/internal/auth"
	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/repositories"
	"knowledgehub-server/internal/utils"
	"knowledgehub-server/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password, fullName, email string) (*entities.User, string, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return nil, "", errors.NewBadRequestError(err.Error())
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, "", errors.NewBadRequestError(err.Error())
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, "", errors.NewBadRequestError(err.Error())
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, "", errors.NewBadRequestError("username already exists")
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", errors.NewBadRequestError("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.NewInternalError("failed to hash password")
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
		return nil, "", errors.NewInternalError("failed to create user")
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", errors.NewInternalError("failed to issue token")
	}

	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*entities.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", errors.NewUnauthorizedError("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", errors.NewUnauthorizedError("invalid username or password")
	}

	if !user.IsActive() {
		return nil, "", errors.NewUnauthorizedError("account is deactivated")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, "", errors.NewInternalError("failed to update last login")
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", errors.NewInternalError("failed to issue token")
	}

	return user, token, nil
}

// ValidateToken resolves a bearer token to its user. Any parse failure,
// unknown user or deactivated account yields 401 so the client pipeline
// can run its expiry transition.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, errors.NewUnauthorizedError("invalid token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewUnauthorizedError("user not found")
	}

	if !user.IsActive() {
		return nil, errors.NewUnauthorizedError("account is deactivated")
	}

	return user, nil
}
