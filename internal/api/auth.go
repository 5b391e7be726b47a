package api

import (
	"context"
	"net/http"

	"github.com/rpggio/pyeditor/internal/domain/account"
)

type userData struct {
	User account.User `json:"user"`
}

// Me returns the user of the current backend session.
func (c *Client) Me(ctx context.Context) (*account.User, error) {
	var data userData
	if err := c.call(c.request(ctx), http.MethodGet, "/auth/me", &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// Login starts a backend session.
func (c *Client) Login(ctx context.Context, username, password string) (*account.User, error) {
	var data userData
	req := c.request(ctx).SetBody(map[string]string{
		"username": username,
		"password": password,
	})
	if err := c.call(req, http.MethodPost, "/auth/login", &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// Register creates an account and starts a backend session.
func (c *Client) Register(ctx context.Context, r account.RegisterRequest) (*account.User, error) {
	var data userData
	req := c.request(ctx).SetBody(r)
	if err := c.call(req, http.MethodPost, "/auth/register", &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(c.request(ctx), http.MethodPost, "/auth/logout", nil)
}

// DeleteAccount removes the account and all of its files.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.call(c.request(ctx), http.MethodDelete, "/auth/account", nil)
}
