package ports

import (
	"context"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

// UserRepository persists employee accounts for the stub API.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns every account ordered by creation.
	List(ctx context.Context) ([]domain.User, error)
}
