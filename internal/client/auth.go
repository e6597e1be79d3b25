package client

import (
	"context"
	"net/http"
)

// AuthAPI exposes the authentication endpoints
type AuthAPI struct {
	client *Client
}

// Auth returns the authentication API
func (c *Client) Auth() *AuthAPI {
	return &AuthAPI{client: c}
}

// Login exchanges credentials for a token and the authenticated user
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp AuthResponse
	if err := a.client.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns a token for it
func (a *AuthAPI) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}

	var resp AuthResponse
	if err := a.client.do(ctx, http.MethodPost, "/auth/register", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CurrentUser returns the user the bearer token belongs to
func (a *AuthAPI) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := a.client.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
