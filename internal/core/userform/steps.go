package userform

import (
	"fmt"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/pkg/validation"
)

type personalStep struct {
	FirstName string `json:"first_name" validate:"notblank"`
	LastName  string `json:"last_name" validate:"notblank"`
}

type contactStep struct {
	Email string `json:"email" validate:"contact_email"`
	Phone string `json:"phone" validate:"phone_digits"`
}

type detailsStep struct {
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	Role        string `json:"role" validate:"notblank"`
}

var stepMessages = map[string]string{
	FieldFirstName:   "First name is required",
	FieldLastName:    "Last name is required",
	FieldEmail:       "Enter a valid email",
	FieldPhone:       "Enter a valid phone number",
	FieldDateOfBirth: "Date of birth is required",
	FieldRole:        "Role is required",
}

// ValidateStep checks the fields of one step of u.
func ValidateStep(step int, u domain.User) error {
	switch step {
	case 0:
		return validation.Struct(personalStep{FirstName: u.FirstName, LastName: u.LastName}, stepMessages)
	case 1:
		return validation.Struct(contactStep{Email: u.Email, Phone: u.Phone}, stepMessages)
	case 2:
		return validation.Struct(detailsStep{DateOfBirth: u.DateOfBirth, Role: u.Role}, stepMessages)
	}
	return fmt.Errorf("no such step %d", step)
}

// Validate checks every step and merges the errors.
func Validate(u domain.User) error {
	merged := validation.Errors{}
	for i := range Steps {
		err := ValidateStep(i, u)
		if err == nil {
			continue
		}
		fieldErrs, ok := err.(validation.Errors)
		if !ok {
			return err
		}
		for k, v := range fieldErrs {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}
