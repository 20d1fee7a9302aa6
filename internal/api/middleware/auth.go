package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

// Context keys set by Auth for the handlers.
const (
	CtxEmail = "email"
	CtxRole  = "role"
)

// Token claim names, as issued by the account service.
const (
	claimEmail = "email"
	claimRole  = "role"
)

// Auth validates the bearer token and injects its email and role into the
// context. Any failure is domain.ErrNotAuthenticated, rendered as 401.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrNotAuthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return domain.ErrNotAuthenticated
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tkn.Valid {
				return domain.ErrNotAuthenticated
			}

			role, _ := claims[claimRole].(string)
			if role == "" {
				return domain.ErrNotAuthenticated
			}
			email, _ := claims[claimEmail].(string)

			c.Set(CtxEmail, email)
			c.Set(CtxRole, role)

			return next(c)
		}
	}
}
