package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// UserAPI exposes the user management endpoints
type UserAPI struct {
	client *Client
}

// Users returns the user management API
func (c *Client) Users() *UserAPI {
	return &UserAPI{client: c}
}

// List fetches one page of users matching the given parameters
func (u *UserAPI) List(ctx context.Context, params ListParams) (*UserPage, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}

	var page UserPage
	if err := u.client.do(ctx, http.MethodGet, "/users", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single user by id
func (u *UserAPI) Get(ctx context.Context, id string) (*User, error) {
	var user User
	if err := u.client.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a user
func (u *UserAPI) Create(ctx context.Context, input CreateUserInput) (*User, error) {
	var user User
	if err := u.client.do(ctx, http.MethodPost, "/users", nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial update to a user
func (u *UserAPI) Update(ctx context.Context, id string, input UpdateUserInput) (*User, error) {
	var user User
	path := fmt.Sprintf("/users/%s", url.PathEscape(id))
	if err := u.client.do(ctx, http.MethodPatch, path, nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user
func (u *UserAPI) Delete(ctx context.Context, id string) error {
	return u.client.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, nil)
}
