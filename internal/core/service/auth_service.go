package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/ports"
	"github.com/99minutos/employee-dashboard/internal/pkg/validation"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,login_email"`
	Password string `json:"password" validate:"required,min=6"`
}

var credentialMessages = map[string]string{
	"email.required":    "Email is required",
	"email.login_email": "Invalid email address",
	"password.required": "Password is required",
	"password.min":      "Minimum 6 characters",
}

// Validate applies the login form rules.
func (c Credentials) Validate() error {
	return validation.Struct(c, credentialMessages)
}

// AuthService drives login and logout: it talks to the API, updates the
// session, navigates, and reports the outcome on the notifier.
type AuthService struct {
	api      ports.AuthAPI
	sessions *SessionService
	nav      ports.Navigator
	notifier *Notifier
	log      zerolog.Logger
}

func NewAuthService(api ports.AuthAPI, sessions *SessionService, nav ports.Navigator, notifier *Notifier, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, sessions: sessions, nav: nav, notifier: notifier, log: log}
}

// Login authenticates with the API. On success the session is replaced,
// the dashboard opened and a success notification shown. On failure the
// session is untouched and the API's message is shown as an error.
func (s *AuthService) Login(ctx context.Context, creds Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	result, err := s.api.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		s.log.Warn().Err(err).Msg("login failed")
		if !errors.Is(err, context.Canceled) {
			s.notifier.Show(err.Error(), domain.SeverityError)
		}
		return err
	}

	s.sessions.SetAuth(result.Session())
	s.log.Info().Str("role", result.Role).Msg("logged in")

	s.nav.Push(domain.RouteDashboard)
	s.notifier.Show("Login successful", domain.SeveritySuccess)
	return nil
}

// Logout clears the session and reloads the login route.
func (s *AuthService) Logout() {
	s.sessions.Logout()
	s.log.Info().Msg("logged out")
	s.nav.Redirect(domain.RouteLogin)
}
