package dto

import (
	"time"

	"knowledgehub-server/internal/domain/entities"
)

type UserDto struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	FullName         string     `json:"fullName"`
	Email            string     `json:"email"`
	Roles            []string   `json:"roles"`
	Enabled          bool       `json:"enabled"`
	AccountNonLocked bool       `json:"accountNonLocked"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
	DocumentCount    int        `json:"documentCount"`
}

func NewUserDto(user *entities.User) UserDto {
	return UserDto{
		ID:               user.ID,
		Username:         user.Username,
		FullName:         user.FullName,
		Email:            user.Email,
		Roles:            user.Roles,
		Enabled:          user.Enabled,
		AccountNonLocked: user.AccountNonLocked,
		CreatedAt:        user.CreatedAt,
		LastLoginAt:      user.LastLoginAt,
	}
}

type UserPage struct {
	Content       []UserDto `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Size          int       `json:"size"`
	Number        int       `json:"number"`
	Last          bool      `json:"last"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
	Email    string `json:"email" binding:"required"`
}

// UpdateUserRequest uses pointers so absent fields stay untouched.
type UpdateUserRequest struct {
	Email            *string `json:"email"`
	FullName         *string `json:"fullName"`
	Enabled          *bool   `json:"enabled"`
	AccountNonLocked *bool   `json:"accountNonLocked"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type BlockUserRequest struct {
	Block *bool `json:"block" binding:"required"`
}

type BlockUserResponse struct {
	Message string  `json:"message"`
	User    UserDto `json:"user"`
}
