package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/ports"
)

// SessionView is the read-only face of the session handed to consumers.
type SessionView interface {
	Current() domain.Session
}

// SessionService owns the in-memory session and mirrors every mutation to the
// cookie store. The cookie store is read only by Hydrate.
type SessionService struct {
	mu      sync.RWMutex
	current domain.Session
	cookies ports.CookieStore
	log     zerolog.Logger
}

func NewSessionService(cookies ports.CookieStore, log zerolog.Logger) *SessionService {
	return &SessionService{cookies: cookies, log: log}
}

// Hydrate rebuilds the session from the cookie store. Absent cookies leave
// the session empty; a single present cookie yields a partial session.
func (s *SessionService) Hydrate() domain.Session {
	token, _ := s.cookies.Read(domain.CookieToken)
	role, _ := s.cookies.Read(domain.CookieRole)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != "" || role != "" {
		s.current = domain.Session{Token: token, Role: role}
	}
	s.log.Debug().
		Bool("has_token", token != "").
		Str("role", role).
		Msg("session hydrated")
	return s.current
}

// SetAuth replaces the session wholesale. Each present field is written to
// its cookie and each absent field clears it.
func (s *SessionService) SetAuth(next domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = next
	s.mirror(domain.CookieToken, next.Token)
	s.mirror(domain.CookieRole, next.Role)
}

// Logout clears both fields and both cookies.
func (s *SessionService) Logout() {
	s.SetAuth(domain.Session{})
}

// Current returns a snapshot of the session.
func (s *SessionService) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// View returns a read-only handle on the session.
func (s *SessionService) View() SessionView {
	return readOnlySession{s}
}

// mirror projects one field onto its cookie. The in-memory session stays
// authoritative, so a persistence failure is logged rather than returned.
func (s *SessionService) mirror(name, value string) {
	var err error
	if value != "" {
		err = s.cookies.Write(name, value)
	} else {
		err = s.cookies.Clear(name)
	}
	if err != nil {
		s.log.Error().Err(err).Str("cookie", name).Msg("cookie store write failed")
	}
}

type readOnlySession struct {
	s *SessionService
}

func (r readOnlySession) Current() domain.Session {
	return r.s.Current()
}
