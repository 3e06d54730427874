package apiclient

import (
	"context"
	"net/http"

	"groupadmin/internal/model"
)

type usersResponse struct {
	Items []model.User `json:"Items"`
}

// ListUsers fetches all users.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out usersResponse
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateUser creates a new user.
func (c *Client) CreateUser(ctx context.Context, user model.User) error {
	return c.do(ctx, http.MethodPost, "/users", nil, user, nil)
}

// UpdateUser applies a partial update; only the patch's non-nil fields are
// sent.
func (c *Client) UpdateUser(ctx context.Context, userid string, patch model.UserPatch) error {
	return c.do(ctx, http.MethodPatch, "/users/"+userid, nil, patch, nil)
}

// DeleteUser deletes a user.
func (c *Client) DeleteUser(ctx context.Context, userid string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+userid, nil, nil, nil)
}

type groupUsersResponse struct {
	Items []model.GroupUser `json:"Items"`
}

// ListGroupUsers fetches the members of a group.
func (c *Client) ListGroupUsers(ctx context.Context, groupid string) ([]model.GroupUser, error) {
	var out groupUsersResponse
	if err := c.do(ctx, http.MethodGet, "/groups/"+groupid+"/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
