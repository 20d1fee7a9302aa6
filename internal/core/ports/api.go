package ports

import (
	"context"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

// AuthAPI is the unauthenticated login call.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
}

// UserAPI is the authenticated user directory.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, user domain.User) (*domain.User, error)
}
