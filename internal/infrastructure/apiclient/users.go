package apiclient

import (
	"context"
	"net/http"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

const (
	pathUsers    = "/user"
	pathRegister = "/auth/register"
)

// ListUsers fetches every user record.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.doJSON(ctx, http.MethodGet, pathUsers, nil, &users, FallbackRequestMessage); err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// CreateUser registers a new user and returns the record the server stored.
func (c *Client) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	user.ID = ""
	var created domain.User
	if err := c.doJSON(ctx, http.MethodPost, pathRegister, user, &created, FallbackRequestMessage); err != nil {
		return nil, err
	}
	return &created, nil
}
