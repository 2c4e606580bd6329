package entities

import (
	"slices"
	"time"
)

const RoleAdmin = "ADMIN"

type User struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Password         string     `json:"-"`
	FullName         string     `json:"fullName"`
	Email            string     `json:"email"`
	Roles            []string   `json:"roles"`
	Enabled          bool       `json:"enabled"`
	AccountNonLocked bool       `json:"accountNonLocked"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) IsAdmin() bool {
	return slices.Contains(u.Roles, RoleAdmin)
}

// IsActive reports whether the account may log in at all.
func (u *User) IsActive() bool {
	return u.Enabled && u.AccountNonLocked
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Search string
	Page   int
	Size   int
}
