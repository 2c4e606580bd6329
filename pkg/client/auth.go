package client

import "context"

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Login exchanges credentials for a session. On success the returned
// {user, token} pair is stored atomically as the new authenticated
// state before Login returns.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	var resp loginResponse
	if err := c.postJSON(ctx, "/api/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	if err := c.setSession(&resp.User, resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates an account and logs it in, with the same atomic
// session installation as Login.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	var resp loginResponse
	if err := c.postJSON(ctx, "/api/auth/register", reg, &resp); err != nil {
		return nil, err
	}
	if err := c.setSession(&resp.User, resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Validate asks the backend whether the current token is still good.
// A 401 response runs the usual expiry transition.
func (c *Client) Validate(ctx context.Context) (*ValidateResult, error) {
	var resp ValidateResult
	if err := c.get(ctx, "/api/auth/validate", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
