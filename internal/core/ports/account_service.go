package ports

import (
	"context"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

// AccountService is the stub API's account use cases.
type AccountService interface {
	Register(ctx context.Context, user domain.User) (*domain.User, error)
	// Login returns a signed access token and the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
