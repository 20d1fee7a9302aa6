package app

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/99minutos/employee-dashboard/internal/api"
	"github.com/99minutos/employee-dashboard/internal/core/directory"
	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/service"
	"github.com/99minutos/employee-dashboard/internal/core/userform"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/cookie"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/db/memory"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/navigation"
	"github.com/99minutos/employee-dashboard/internal/pkg/config"
)

const secret = "e2e-secret"

func startAPI(t *testing.T) *httptest.Server {
	t.Helper()
	accounts := directory.NewAccountService(memory.NewUserRepository(), secret, time.Hour)
	_, err := accounts.Register(context.Background(), domain.User{
		FirstName: "Root", LastName: "Admin", Email: "admin@example.com",
		Phone: "5550000000", DateOfBirth: "1970-01-01", Role: domain.RoleAdmin, Password: "admin123",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(api.NewRouter(api.Deps{Accounts: accounts, JWTSecret: secret, Log: zerolog.Nop()}))
	t.Cleanup(srv.Close)
	return srv
}

func newApp(t *testing.T, baseURL string, cookies *cookie.MemoryStore) *App {
	t.Helper()
	cfg, err := config.LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_URL":           baseURL,
		"QUERY_RETRY_DELAY": "1ms",
		"NOTIFY_DURATION":   "1m",
	}))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	a, err := New(context.Background(), cfg, zerolog.Nop(), WithCookieStore(cookies))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_LoginSuccess(t *testing.T) {
	srv := startAPI(t)
	cookies := cookie.NewMemoryStore()
	a := newApp(t, srv.URL, cookies)

	if a.Nav.Current() != domain.RouteLogin {
		t.Fatalf("fresh app should start on login, got %s", a.Nav.Current())
	}

	err := a.Auth.Login(context.Background(), service.Credentials{Email: "admin@example.com", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	s := a.Session().Current()
	if !s.Authenticated() || s.Role != domain.RoleAdmin {
		t.Fatalf("session = %+v", s)
	}
	if tok, ok := cookies.Read(domain.CookieToken); !ok || tok != s.Token {
		t.Errorf("token cookie = %q, %v", tok, ok)
	}
	if role, _ := cookies.Read(domain.CookieRole); role != domain.RoleAdmin {
		t.Errorf("role cookie = %q", role)
	}
	if a.Nav.Current() != domain.RouteDashboard {
		t.Errorf("route = %s", a.Nav.Current())
	}
	note, visible := a.Notifier.Current()
	if !visible || note.Message != "Login successful" || note.Severity != domain.SeveritySuccess {
		t.Errorf("notification = %+v visible=%v", note, visible)
	}

	// A second process started from the same cookies resumes the session.
	b := newApp(t, srv.URL, cookies)
	if b.Session().Current() != s || b.Nav.Current() != domain.RouteDashboard {
		t.Errorf("hydrated session = %+v route=%s", b.Session().Current(), b.Nav.Current())
	}
}

func TestApp_LoginFailureKeepsSession(t *testing.T) {
	srv := startAPI(t)
	a := newApp(t, srv.URL, cookie.NewMemoryStore())

	err := a.Auth.Login(context.Background(), service.Credentials{Email: "admin@example.com", Password: "wrong-pass"})
	if err == nil {
		t.Fatal("expected login failure")
	}
	if err.Error() != "Incorrect email or password" {
		t.Errorf("error = %q", err.Error())
	}
	if !a.Session().Current().IsEmpty() {
		t.Errorf("session should stay empty, got %+v", a.Session().Current())
	}
	note, visible := a.Notifier.Current()
	if !visible || note.Message != "Incorrect email or password" || note.Severity != domain.SeverityError {
		t.Errorf("notification = %+v visible=%v", note, visible)
	}
	if a.Nav.Current() != domain.RouteLogin {
		t.Errorf("route = %s", a.Nav.Current())
	}
}

func TestApp_UnauthorizedEndsSession(t *testing.T) {
	srv := startAPI(t)
	cookies := cookie.NewMemoryStore()
	a := newApp(t, srv.URL, cookies)
	a.Sessions.SetAuth(domain.Session{Token: "forged", Role: domain.RoleAdmin})

	_, err := a.Users.Load(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !a.Session().Current().IsEmpty() {
		t.Errorf("session = %+v", a.Session().Current())
	}
	if _, ok := cookies.Read(domain.CookieToken); ok {
		t.Error("token cookie should be cleared")
	}
	if _, ok := cookies.Read(domain.CookieRole); ok {
		t.Error("role cookie should be cleared")
	}
	hist := a.Nav.History()
	if len(hist) == 0 || hist[len(hist)-1] != (navigation.Entry{Path: domain.RouteLogin, Kind: navigation.KindRedirect}) {
		t.Errorf("history = %+v", hist)
	}
	if _, visible := a.Notifier.Current(); visible {
		t.Error("an expired session should not also raise a notification")
	}
}

func TestApp_CreatedUserAppearsInList(t *testing.T) {
	srv := startAPI(t)
	a := newApp(t, srv.URL, cookie.NewMemoryStore())
	ctx := context.Background()

	if err := a.Auth.Login(ctx, service.Credentials{Email: "admin@example.com", Password: "admin123"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	rows, err := a.Users.Load(ctx)
	if err != nil || len(rows) != 1 {
		t.Fatalf("initial list = %v, %v", rows, err)
	}

	a.Users.OpenCreate()
	d := a.Users.Dialog()
	for field, value := range map[string]string{
		userform.FieldFirstName:   "Grace",
		userform.FieldLastName:    "Hopper",
		userform.FieldEmail:       "grace@example.com",
		userform.FieldPhone:       "5551234567",
		userform.FieldDateOfBirth: "1906-12-09",
		userform.FieldRole:        domain.RoleManager,
	} {
		if err := d.Set(field, value); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < len(userform.Steps); i++ {
		if err := a.Users.Advance(ctx); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}

	rows = a.Users.Rows()
	if len(rows) != 2 || rows[1].Email != "grace@example.com" || rows[1].ID == "" {
		t.Fatalf("list after create = %+v", rows)
	}
	note, _ := a.Notifier.Current()
	if note.Message != "User created successfully" {
		t.Errorf("notification = %+v", note)
	}
}
