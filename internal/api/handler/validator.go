package handler

import (
	"github.com/99minutos/employee-dashboard/internal/pkg/validation"
)

// echoValidator lets Echo call c.Validate(req) with the shared rules.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures are
// validation.Errors and so wrap domain.ErrValidation.
func (ev *echoValidator) Validate(i any) error {
	return validation.Struct(i, nil)
}
