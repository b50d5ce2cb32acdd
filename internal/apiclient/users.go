package apiclient

import (
	"context"
	"net/http"

	"admin-console/internal/model"
)

func (c *Client) GetUsers(ctx context.Context, query model.PageQuery) (model.PaginatedResponse[model.User], error) {
	var page model.PaginatedResponse[model.User]
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: EndpointUsers, Query: query.Values(), Retries: 1}, &page)
	return page, err
}

func (c *Client) GetUserByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: UserByID(id), Retries: 1}, &user)
	return user, err
}

func (c *Client) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	var user model.User
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: EndpointUsers, Body: req}, &user)
	return user, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: UserByID(id)}, nil)
}

func (c *Client) RestoreUser(ctx context.Context, id string) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: UserRestore(id)}, nil)
}

// ChangePassword changes the signed-in operator's own password.
func (c *Client) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: EndpointChangePassword, Body: req}, nil)
}

// AdminChangePassword sets another user's password without the current one.
func (c *Client) AdminChangePassword(ctx context.Context, id string, req model.AdminChangePasswordRequest) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: UserPassword(id), Body: req}, nil)
}
