// Package app assembles one running dashboard: a single session, notifier,
// navigator, query cache and the two API client instances.
package app

import (
	"context"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/ports"
	"github.com/99minutos/employee-dashboard/internal/core/query"
	"github.com/99minutos/employee-dashboard/internal/core/service"
	"github.com/99minutos/employee-dashboard/internal/core/userlist"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/apiclient"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/cookie"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/db/redis"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/navigation"
	"github.com/99minutos/employee-dashboard/internal/pkg/config"
	"github.com/99minutos/employee-dashboard/pkg/logger"
)

// App is the composition root. Fields are exported for the CLI; nothing
// else should construct these components.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Cookies  ports.CookieStore
	Sessions *service.SessionService
	Notifier *service.Notifier
	Nav      *navigation.Recorder
	Auth     *service.AuthService
	Query    *query.Client
	Users    *userlist.Controller

	public        *apiclient.Client
	authenticated *apiclient.Client
	redis         *goredis.Client
}

type options struct {
	cookies    ports.CookieStore
	httpClient *http.Client
	store      query.Store
}

// Option overrides a component. Tests use them to avoid touching disk.
type Option func(*options)

func WithCookieStore(s ports.CookieStore) Option {
	return func(o *options) { o.cookies = s }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithQueryStore(s query.Store) Option {
	return func(o *options) { o.store = s }
}

// New builds the App and hydrates the session from the cookie store.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Log: log}

	if o.cookies == nil {
		fs, err := cookie.NewFileStore(cfg.Session.File)
		if err != nil {
			return nil, fmt.Errorf("open session file: %w", err)
		}
		o.cookies = fs
	}
	a.Cookies = o.cookies

	a.Sessions = service.NewSessionService(a.Cookies, logger.ForComponent(log, "session"))
	session := a.Sessions.Hydrate()

	start := domain.RouteLogin
	if session.Authenticated() {
		start = domain.RouteDashboard
	}
	a.Nav = navigation.NewRecorder(start, logger.ForComponent(log, "navigation"))
	a.Notifier = service.NewNotifier(cfg.Notify.Duration)

	clientCfg := apiclient.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}
	var clientOpts []apiclient.Option
	if o.httpClient != nil {
		clientOpts = append(clientOpts, apiclient.WithHTTPClient(o.httpClient))
	}
	clientLog := logger.ForComponent(log, "apiclient")

	var err error
	a.public, err = apiclient.NewPublic(clientCfg, clientLog, clientOpts...)
	if err != nil {
		return nil, err
	}
	a.authenticated, err = apiclient.NewAuthenticated(clientCfg, a.Cookies, a.Sessions, a.Nav, clientLog, clientOpts...)
	if err != nil {
		return nil, err
	}

	a.Auth = service.NewAuthService(a.public, a.Sessions, a.Nav, a.Notifier, logger.ForComponent(log, "auth"))

	if o.store == nil {
		o.store, err = a.queryStore(ctx)
		if err != nil {
			return nil, err
		}
	}
	a.Query = query.NewClient(o.store, logger.ForComponent(log, "query"),
		query.WithRetry(query.RetryPolicy{Retries: cfg.Query.Retry, Delay: cfg.Query.RetryDelay}),
		query.WithStaleTime(cfg.Query.StaleTime),
	)
	a.Users = userlist.NewController(a.Query, a.authenticated, a.Notifier, logger.ForComponent(log, "users"))

	log.Debug().
		Str("api", cfg.API.BaseURL).
		Str("query_store", cfg.Query.Store).
		Strs("clients", []string{a.public.Name(), a.authenticated.Name()}).
		Bool("has_token", session.HasToken()).
		Str("role", session.Role).
		Msg("dashboard ready")
	return a, nil
}

func (a *App) queryStore(ctx context.Context) (query.Store, error) {
	if a.Config.Query.Store != "redis" {
		return query.NewMemoryStore(), nil
	}
	client, err := redis.Connect(ctx, redis.Config{Addr: a.Config.Redis.Addr, DB: a.Config.Redis.DB})
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}
	a.redis = client
	return redis.NewQueryStore(client, a.Config.Redis.Prefix, a.Config.Redis.TTL), nil
}

// Session is the read-only view handed to rendering code.
func (a *App) Session() service.SessionView {
	return a.Sessions.View()
}

// Close releases the list query and any Redis connection.
func (a *App) Close() error {
	a.Users.Close()
	a.Notifier.Dismiss()
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
