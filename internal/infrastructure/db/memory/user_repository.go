// Package memory holds the stub API's default, process-local repository.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

// UserRepository keeps accounts in insertion order.
type UserRepository struct {
	mu      sync.RWMutex
	users   []domain.User
	byEmail map[string]int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]int)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return nil, domain.ErrUserExists
	}

	stored := *user
	stored.ID = domain.UserID(uuid.NewString())
	r.byEmail[key] = len(r.users)
	r.users = append(r.users, stored)
	return &stored, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.users[i]
	return &u, nil
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.User(nil), r.users...), nil
}
