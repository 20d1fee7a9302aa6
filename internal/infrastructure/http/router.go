package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/99minutos/employee-dashboard/internal/infrastructure/http/handlers"
)

// RegisterOps mounts the health probes and the Prometheus endpoint on e.
func RegisterOps(e *echo.Echo, checks map[string]handlers.Check) {
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// NewOpsRouter builds a standalone Echo instance serving only RegisterOps
// routes. The dashboard shell uses it to expose its client metrics.
func NewOpsRouter(checks map[string]handlers.Check) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	RegisterOps(e, checks)
	return e
}
