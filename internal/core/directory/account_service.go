// Package directory implements the stub API's account use cases: register,
// login and list, with bcrypt password hashes and HS256 access tokens.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/ports"
	"github.com/99minutos/employee-dashboard/internal/core/userform"
	"github.com/99minutos/employee-dashboard/internal/pkg/validation"
)

const defaultTokenTTL = 24 * time.Hour

// Claim names carried by access tokens.
const (
	ClaimEmail = "email"
	ClaimRole  = "role"
)

// registration holds the server-side rules beyond the dialog's step rules.
type registration struct {
	Role     string `json:"role" validate:"oneof=admin manager user"`
	Password string `json:"password" validate:"min=6"`
}

var registrationMessages = map[string]string{
	"role":     "Role must be admin, manager or user",
	"password": "Password must be at least 6 characters",
}

// AccountService implements ports.AccountService.
type AccountService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAccountService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AccountService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

// Register validates and stores a new account. A missing employee id or
// password gets the same defaults the dashboard offers.
func (s *AccountService) Register(ctx context.Context, user domain.User) (*domain.User, error) {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	user.Role = strings.TrimSpace(strings.ToLower(user.Role))
	if user.Password == "" {
		user.Password = domain.DefaultPassword
	}
	if user.EmployeeID == "" {
		user.EmployeeID = domain.SuggestEmployeeID(s.now())
	}

	if err := userform.Validate(user); err != nil {
		return nil, err
	}
	if err := validation.Struct(registration{Role: user.Role, Password: user.Password}, registrationMessages); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.ID = ""
	user.Password = ""
	user.PasswordHash = string(hash)

	created, err := s.repo.Create(ctx, &user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login checks the credentials and issues an access token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AccountService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *AccountService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      string(user.ID),
		ClaimEmail: user.Email,
		ClaimRole:  user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
