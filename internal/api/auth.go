package api

import (
	"context"

	"transrural/internal/domain"
)

// LoginResult is the login payload: the user record plus the bearer token
// sent on every later request.
type LoginResult struct {
	Success bool        `json:"success"`
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var out LoginResult
	if err := c.post(ctx, "/api/login/", body, &out); err != nil {
		return LoginResult{}, err
	}
	c.SetToken(out.Token)
	return out, nil
}
