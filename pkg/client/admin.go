package client

import (
	"context"
	"net/url"
	"strconv"
)

// Admin endpoints require the caller's session to carry the ADMIN role;
// the backend rejects everything else with 403.

type UserPage struct {
	Content       []User `json:"content"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	Size          int    `json:"size"`
	Number        int    `json:"number"`
	Last          bool   `json:"last"`
}

func (c *Client) ListUsers(ctx context.Context, search string, page, size int) (*UserPage, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result UserPage
	if err := c.get(ctx, "/api/admin/users", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.get(ctx, "/api/admin/users/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, reg Registration) (*User, error) {
	var user User
	if err := c.postJSON(ctx, "/api/admin/users", reg, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type UserUpdate struct {
	Email            *string `json:"email,omitempty"`
	FullName         *string `json:"fullName,omitempty"`
	Enabled          *bool   `json:"enabled,omitempty"`
	AccountNonLocked *bool   `json:"accountNonLocked,omitempty"`
}

func (c *Client) UpdateUser(ctx context.Context, id string, update UserUpdate) (*User, error) {
	var user User
	if err := c.putJSON(ctx, "/api/admin/users/"+id, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUserPassword(ctx context.Context, id, password string) error {
	body := struct {
		Password string `json:"password"`
	}{Password: password}
	return c.putJSON(ctx, "/api/admin/users/"+id+"/password", body, nil)
}

func (c *Client) SetUserBlocked(ctx context.Context, id string, blocked bool) (*User, error) {
	body := struct {
		Block bool `json:"block"`
	}{Block: blocked}

	var resp struct {
		Message string `json:"message"`
		User    User   `json:"user"`
	}
	if err := c.putJSON(ctx, "/api/admin/users/"+id+"/block", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/admin/users/"+id, nil)
}
