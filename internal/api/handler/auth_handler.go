package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/employee-dashboard/internal/api/metrics"
	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
	log      zerolog.Logger
}

func NewAuthHandler(accounts ports.AccountService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, log: log}
}

// loginForm is the OAuth2 password grant. The username carries the email.
type loginForm struct {
	GrantType string `form:"grant_type" json:"grant_type" validate:"omitempty,eq=password"`
	Username  string `form:"username" json:"username" validate:"required"`
	Password  string `form:"password" json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

// registerRequest is validated by the account service so the API reports
// the same field messages as the dashboard dialog.
type registerRequest struct {
	EmployeeID  string `json:"employee_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Role        string `json:"role"`
	Password    string `json:"password"`
}

// Login exchanges form-encoded credentials for an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid form payload")
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	token, user, err := h.accounts.Login(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.log.Info().Str("role", user.Role).Msg("user logged in")

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", Role: user.Role})
}

// Register creates an employee account. Only admins reach this handler.
func (h *AuthHandler) Register(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid JSON payload")
	}

	created, err := h.accounts.Register(c.Request().Context(), domain.User{
		EmployeeID:  req.EmployeeID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Role:        req.Role,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	metrics.UsersRegisteredTotal.WithLabelValues(created.Role).Inc()
	h.log.Info().Str("id", string(created.ID)).Str("role", created.Role).Msg("user registered")

	return c.JSON(http.StatusCreated, created)
}
