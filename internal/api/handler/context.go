package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-dashboard/internal/api/middleware"
	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. A missing
// role means the middleware did not run for this route.
func ctxClaims(c echo.Context) (email, role string, err error) {
	role, _ = c.Get(middleware.CtxRole).(string)
	if role == "" {
		return "", "", domain.ErrNotAuthenticated
	}
	email, _ = c.Get(middleware.CtxEmail).(string)
	return email, role, nil
}
