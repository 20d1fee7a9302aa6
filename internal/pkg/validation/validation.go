// Package validation configures go-playground/validator with the dashboard's
// field rules and converts its errors into per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

var (
	// loginEmailPattern is the loose shape accepted by the login form.
	loginEmailPattern = regexp.MustCompile(`^\S+@\S+$`)
	// contactEmailPattern additionally requires a dot in the domain part.
	contactEmailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern        = regexp.MustCompile(`^\d{10,}$`)
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared, fully configured validator.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "login_email", matches(loginEmailPattern))
		mustRegister(v, "contact_email", matches(contactEmailPattern))
		mustRegister(v, "phone_digits", matches(phonePattern))
		mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		instance = v
	})
	return instance
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Errors maps a field name to its message. It wraps domain.ErrValidation.
type Errors map[string]string

func (e Errors) Error() string {
	fields := e.Fields()
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[f])
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the failed field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e Errors) Unwrap() error {
	return domain.ErrValidation
}

// Struct validates s. Messages are looked up as "field.tag", then "field";
// anything else gets a generic message for the failed tag.
func Struct(s any, messages map[string]string) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := make(Errors, len(ve))
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			out[fe.Field()] = msg
			continue
		}
		if msg, ok := messages[fe.Field()]; ok {
			out[fe.Field()] = msg
			continue
		}
		out[fe.Field()] = fieldError(fe)
	}
	return out
}

// fieldError converts a single validation failure into a readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email", "login_email", "contact_email":
		return field + " must be a valid email"
	case "phone_digits":
		return field + " must have at least 10 digits"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
