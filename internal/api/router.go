package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/99minutos/employee-dashboard/internal/api/handler"
	"github.com/99minutos/employee-dashboard/internal/api/middleware"
	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/ports"
	opshttp "github.com/99minutos/employee-dashboard/internal/infrastructure/http"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/http/handlers"
)

// Deps are the collaborators of the directory API.
type Deps struct {
	Accounts  ports.AccountService
	JWTSecret string
	Log       zerolog.Logger
	// Checks feed the readiness probe, keyed by dependency name.
	Checks map[string]handlers.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(requestLogger(deps.Log))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Accounts, deps.Log)
	userHandler := handler.NewUserHandler(deps.Accounts)
	auth := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register, auth, middleware.RBAC(domain.RoleAdmin))

	// --- Directory ---
	e.GET("/user", userHandler.List, auth)

	// --- Health probes and metrics (no auth required) ---
	opshttp.RegisterOps(e, deps.Checks)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			} else if v.Status >= 400 {
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
