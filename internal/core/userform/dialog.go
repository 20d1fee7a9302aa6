// Package userform is the three-step create/edit/view dialog for a user
// record. A Dialog is not safe for concurrent use.
package userform

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/pkg/validation"
)

// Mode selects how the dialog treats its record.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
	ModeView   Mode = "view"
)

// ParseMode accepts create, edit or view.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCreate, ModeEdit, ModeView:
		return m, nil
	}
	return "", fmt.Errorf("unknown dialog mode %q", s)
}

// Steps are the dialog's step titles.
var Steps = []string{"Personal Info", "Contact Info", "Role and Birth Info"}

// Field names accepted by Set.
const (
	FieldEmployeeID  = "employee_id"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldDateOfBirth = "date_of_birth"
	FieldRole        = "role"
	FieldPassword    = "password"
)

// StepFields lists the fields edited on each step.
var StepFields = [][]string{
	{FieldEmployeeID, FieldFirstName, FieldLastName},
	{FieldEmail, FieldPhone, FieldPassword},
	{FieldDateOfBirth, FieldRole},
}

var (
	ErrReadOnly     = errors.New("dialog is read-only")
	ErrClosed       = errors.New("dialog is closed")
	ErrUnknownField = errors.New("unknown field")
)

// Action is one control of the action row.
type Action struct {
	Label    string
	Disabled bool
}

// Dialog holds the draft record, the active step and the errors of the
// last failed advance.
type Dialog struct {
	open   bool
	mode   Mode
	step   int
	draft  domain.User
	errors validation.Errors
}

// Open resets the dialog to step 0. The draft is seeded from record, or
// from fresh defaults when record is nil.
func (d *Dialog) Open(mode Mode, record *domain.User, now time.Time) {
	d.open = true
	d.mode = mode
	d.step = 0
	d.errors = nil
	if record != nil {
		d.draft = *record
	} else {
		d.draft = domain.NewUserDraft(now)
	}
}

// Close discards all dialog state.
func (d *Dialog) Close() {
	*d = Dialog{}
}

func (d *Dialog) IsOpen() bool { return d.open }
func (d *Dialog) Mode() Mode   { return d.mode }
func (d *Dialog) Step() int    { return d.step }

// Draft returns a copy of the record being edited.
func (d *Dialog) Draft() domain.User { return d.draft }

// IsLastStep reports whether Next would submit.
func (d *Dialog) IsLastStep() bool {
	return d.step == len(Steps)-1
}

// Set updates one field of the draft.
func (d *Dialog) Set(field, value string) error {
	if !d.open {
		return ErrClosed
	}
	if d.mode == ModeView {
		return ErrReadOnly
	}

	switch field {
	case FieldEmployeeID:
		d.draft.EmployeeID = value
	case FieldFirstName:
		d.draft.FirstName = value
	case FieldLastName:
		d.draft.LastName = value
	case FieldEmail:
		d.draft.Email = value
	case FieldPhone:
		d.draft.Phone = value
	case FieldDateOfBirth:
		d.draft.DateOfBirth = value
	case FieldRole:
		d.draft.Role = value
	case FieldPassword:
		d.draft.Password = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Next validates the current step. On failure it returns the step's
// validation.Errors and stays put. Otherwise it advances, or on the last
// step returns the record to submit.
func (d *Dialog) Next() (*domain.User, error) {
	if !d.open {
		return nil, ErrClosed
	}
	if d.mode == ModeView {
		return nil, ErrReadOnly
	}

	if err := ValidateStep(d.step, d.draft); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			d.errors = fieldErrs
		}
		return nil, err
	}
	d.errors = nil

	if d.IsLastStep() {
		submission := d.draft
		return &submission, nil
	}
	d.step++
	return nil, nil
}

// Back retreats one step, never below the first, and clears errors.
func (d *Dialog) Back() {
	if d.step > 0 {
		d.step--
	}
	d.errors = nil
}

// Errors returns the messages of the last failed advance by field.
func (d *Dialog) Errors() map[string]string {
	out := make(map[string]string, len(d.errors))
	for k, v := range d.errors {
		out[k] = v
	}
	return out
}

// StepFailed reports whether step i is the active step and has errors.
func (d *Dialog) StepFailed(i int) bool {
	return i == d.step && len(d.errors) > 0
}

// Actions returns the action row: Back plus Close in view mode, Back plus
// Next or Finish otherwise.
func (d *Dialog) Actions() []Action {
	back := Action{Label: "Back", Disabled: d.step == 0}
	if d.mode == ModeView {
		return []Action{back, {Label: "Close"}}
	}
	if d.IsLastStep() {
		return []Action{back, {Label: "Finish"}}
	}
	return []Action{back, {Label: "Next"}}
}
