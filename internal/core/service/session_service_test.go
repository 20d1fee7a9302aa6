package service

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

// stubCookieStore is an in-memory cookie jar that can be told to fail writes.
type stubCookieStore struct {
	values   map[string]string
	writeErr error
	writes   int
}

func newStubCookieStore() *stubCookieStore {
	return &stubCookieStore{values: make(map[string]string)}
}

func (s *stubCookieStore) Read(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *stubCookieStore) Write(name, value string) error {
	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.values[name] = value
	return nil
}

func (s *stubCookieStore) Clear(name string) error {
	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	delete(s.values, name)
	return nil
}

func TestSessionService_HydrateEmpty(t *testing.T) {
	svc := NewSessionService(newStubCookieStore(), zerolog.Nop())

	if got := svc.Hydrate(); !got.IsEmpty() {
		t.Fatalf("expected empty session, got %+v", got)
	}
}

func TestSessionService_HydratePartial(t *testing.T) {
	cookies := newStubCookieStore()
	cookies.values[domain.CookieToken] = "tok"
	svc := NewSessionService(cookies, zerolog.Nop())

	got := svc.Hydrate()
	if got.Token != "tok" || got.Role != "" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.Authenticated() {
		t.Fatalf("partial session must not be authenticated")
	}
}

func TestSessionService_HydrateIsIdempotent(t *testing.T) {
	cookies := newStubCookieStore()
	cookies.values[domain.CookieToken] = "tok"
	cookies.values[domain.CookieRole] = domain.RoleAdmin
	svc := NewSessionService(cookies, zerolog.Nop())

	first := svc.Hydrate()
	second := svc.Hydrate()
	if first != second {
		t.Fatalf("hydrate not idempotent: %+v vs %+v", first, second)
	}
	if svc.Current() != first {
		t.Fatalf("current differs from hydrated session")
	}
}

func TestSessionService_SetAuthMirrorsCookies(t *testing.T) {
	inputs := []domain.Session{
		{Token: "abc", Role: domain.RoleAdmin},
		{Token: "xyz", Role: domain.RoleUser},
		{Token: "only-token"},
	}
	for _, in := range inputs {
		cookies := newStubCookieStore()
		svc := NewSessionService(cookies, zerolog.Nop())

		svc.SetAuth(in)

		if svc.Current() != in {
			t.Fatalf("current = %+v, want %+v", svc.Current(), in)
		}
		token, ok := cookies.Read(domain.CookieToken)
		if token != in.Token || ok != (in.Token != "") {
			t.Fatalf("token cookie = %q (%v), want %q", token, ok, in.Token)
		}
		role, ok := cookies.Read(domain.CookieRole)
		if role != in.Role || ok != (in.Role != "") {
			t.Fatalf("role cookie = %q (%v), want %q", role, ok, in.Role)
		}
	}
}

func TestSessionService_SetAuthEmptyClearsEverything(t *testing.T) {
	cookies := newStubCookieStore()
	svc := NewSessionService(cookies, zerolog.Nop())
	svc.SetAuth(domain.Session{Token: "abc", Role: domain.RoleAdmin})

	svc.SetAuth(domain.Session{})

	if !svc.Current().IsEmpty() {
		t.Fatalf("expected empty session, got %+v", svc.Current())
	}
	if _, ok := cookies.Read(domain.CookieToken); ok {
		t.Fatalf("token cookie should be cleared")
	}
	if _, ok := cookies.Read(domain.CookieRole); ok {
		t.Fatalf("role cookie should be cleared")
	}
}

func TestSessionService_LogoutEqualsEmptySetAuth(t *testing.T) {
	cookies := newStubCookieStore()
	svc := NewSessionService(cookies, zerolog.Nop())
	svc.SetAuth(domain.Session{Token: "abc", Role: domain.RoleManager})

	svc.Logout()

	if !svc.Current().IsEmpty() || len(cookies.values) != 0 {
		t.Fatalf("logout left state behind: %+v %v", svc.Current(), cookies.values)
	}
}

func TestSessionService_CookieFailureDoesNotFail(t *testing.T) {
	cookies := newStubCookieStore()
	cookies.writeErr = errors.New("disk full")
	svc := NewSessionService(cookies, zerolog.Nop())

	in := domain.Session{Token: "abc", Role: domain.RoleAdmin}
	svc.SetAuth(in)

	if svc.Current() != in {
		t.Fatalf("in-memory session should still be replaced")
	}
	if cookies.writes != 2 {
		t.Fatalf("expected both cookies attempted, got %d", cookies.writes)
	}
}

func TestSessionService_ViewIsLive(t *testing.T) {
	svc := NewSessionService(newStubCookieStore(), zerolog.Nop())
	view := svc.View()

	svc.SetAuth(domain.Session{Token: "abc", Role: domain.RoleUser})
	if view.Current().Role != domain.RoleUser {
		t.Fatalf("view should reflect the latest session")
	}
}
