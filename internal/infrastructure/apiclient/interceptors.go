package apiclient

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/ports"
)

// SessionResetter clears the session wholesale.
type SessionResetter interface {
	Logout()
}

// BearerFromCookies attaches "Authorization: Bearer <token>" when the cookie
// store holds a token. It reads the store on every request.
func BearerFromCookies(cookies ports.CookieStore) RequestInterceptor {
	return func(req *http.Request) error {
		if token, ok := cookies.Read(domain.CookieToken); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// ExpireSessionOnUnauthorized reacts to a 401 by clearing the session and
// both cookies, redirecting to the login route, and rejecting the call with
// domain.ErrSessionExpired. Other in-flight requests are not cancelled.
func ExpireSessionOnUnauthorized(sessions SessionResetter, nav ports.Navigator, log zerolog.Logger) ResponseInterceptor {
	return func(resp *http.Response) error {
		if resp.StatusCode != http.StatusUnauthorized {
			return nil
		}

		path := ""
		if resp.Request != nil && resp.Request.URL != nil {
			path = resp.Request.URL.Path
		}
		log.Warn().Str("path", path).Msg("authorization rejected, ending session")

		sessions.Logout()
		nav.Redirect(domain.RouteLogin)
		return fmt.Errorf("%s: %w", path, domain.ErrSessionExpired)
	}
}

// NewPublic builds the unauthenticated instance used for login. It has no
// interceptors.
func NewPublic(cfg Config, log zerolog.Logger, opts ...Option) (*Client, error) {
	base := []Option{WithName("public"), WithLogger(log)}
	return New(cfg, append(base, opts...)...)
}

// NewAuthenticated builds the instance used for every other call.
func NewAuthenticated(cfg Config, cookies ports.CookieStore, sessions SessionResetter, nav ports.Navigator, log zerolog.Logger, opts ...Option) (*Client, error) {
	base := []Option{
		WithName("authenticated"),
		WithLogger(log),
		WithRequestInterceptor(BearerFromCookies(cookies)),
		WithResponseInterceptor(ExpireSessionOnUnauthorized(sessions, nav, log)),
	}
	return New(cfg, append(base, opts...)...)
}
