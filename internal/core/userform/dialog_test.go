package userform

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

var fixedNow = time.UnixMilli(1700000000123)

func fillValid(t *testing.T, d *Dialog) {
	t.Helper()
	for field, value := range map[string]string{
		FieldFirstName:   "Ada",
		FieldLastName:    "Lovelace",
		FieldEmail:       "ada@example.com",
		FieldPhone:       "5551234567",
		FieldDateOfBirth: "1815-12-10",
		FieldRole:        domain.RoleManager,
	} {
		if err := d.Set(field, value); err != nil {
			t.Fatalf("Set(%s): %v", field, err)
		}
	}
}

func TestDialog_OpenCreateSeedsDefaults(t *testing.T) {
	var d Dialog
	d.Open(ModeCreate, nil, fixedNow)

	draft := d.Draft()
	if draft.EmployeeID != "EMP1700000000123" {
		t.Errorf("employee id = %q", draft.EmployeeID)
	}
	if draft.Password != domain.DefaultPassword {
		t.Errorf("password = %q", draft.Password)
	}
	if d.Step() != 0 || !d.IsOpen() || d.Mode() != ModeCreate {
		t.Errorf("unexpected state step=%d open=%v mode=%s", d.Step(), d.IsOpen(), d.Mode())
	}
}

func TestDialog_ReopenResetsState(t *testing.T) {
	var d Dialog
	d.Open(ModeCreate, nil, fixedNow)
	fillValid(t, &d)
	if _, err := d.Next(); err != nil {
		t.Fatal(err)
	}

	record := &domain.User{ID: "9", FirstName: "Grace", LastName: "Hopper"}
	d.Open(ModeEdit, record, fixedNow)
	if d.Step() != 0 {
		t.Errorf("step = %d, want 0", d.Step())
	}
	if got := d.Draft(); got.FirstName != "Grace" || got.Email != "" {
		t.Errorf("draft should come from the record, got %+v", got)
	}
}

func TestDialog_StepValidation(t *testing.T) {
	tests := []struct {
		name   string
		step   int
		user   domain.User
		fields []string
	}{
		{"step 0 empty names", 0, domain.User{FirstName: "  ", LastName: ""}, []string{FieldFirstName, FieldLastName}},
		{"step 0 valid", 0, domain.User{FirstName: "Ada", LastName: "Lovelace"}, nil},
		{"step 1 email without dot", 1, domain.User{Email: "ada@example", Phone: "5551234567"}, []string{FieldEmail}},
		{"step 1 short phone", 1, domain.User{Email: "ada@example.com", Phone: "555123"}, []string{FieldPhone}},
		{"step 1 non-digit phone", 1, domain.User{Email: "ada@example.com", Phone: "555-123-4567"}, []string{FieldPhone}},
		{"step 1 valid", 1, domain.User{Email: "ada@example.com", Phone: "5551234567"}, nil},
		{"step 2 missing both", 2, domain.User{}, []string{FieldDateOfBirth, FieldRole}},
		{"step 2 blank role", 2, domain.User{DateOfBirth: "1990-01-01", Role: " "}, []string{FieldRole}},
		{"step 2 valid", 2, domain.User{DateOfBirth: "1990-01-01", Role: domain.RoleUser}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStep(tt.step, tt.user)
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var d Dialog
			d.Open(ModeCreate, &tt.user, fixedNow)
			d.step = tt.step
			_, _ = d.Next()
			got := d.Errors()
			if len(got) != len(tt.fields) {
				t.Fatalf("errors = %v, want fields %v", got, tt.fields)
			}
			for _, f := range tt.fields {
				if got[f] == "" {
					t.Errorf("missing error for %s in %v", f, got)
				}
			}
		})
	}
}

func TestDialog_Messages(t *testing.T) {
	var d Dialog
	d.Open(ModeCreate, nil, fixedNow)
	_, err := d.Next()
	if err == nil {
		t.Fatal("expected error")
	}
	errs := d.Errors()
	if errs[FieldFirstName] != "First name is required" || errs[FieldLastName] != "Last name is required" {
		t.Errorf("unexpected messages %v", errs)
	}
	if !d.StepFailed(0) || d.StepFailed(1) {
		t.Error("only the active step should be marked failed")
	}
	if !strings.Contains(err.Error(), "First name is required") {
		t.Errorf("error text = %q", err.Error())
	}
}

func TestDialog_WalkToSubmission(t *testing.T) {
	var d Dialog
	d.Open(ModeCreate, nil, fixedNow)
	fillValid(t, &d)

	if acts := d.Actions(); acts[0].Label != "Back" || !acts[0].Disabled || acts[1].Label != "Next" {
		t.Errorf("step 0 actions = %+v", acts)
	}
	for i := 0; i < 2; i++ {
		sub, err := d.Next()
		if err != nil || sub != nil {
			t.Fatalf("advance %d: sub=%v err=%v", i, sub, err)
		}
	}
	if d.Step() != 2 || d.Actions()[1].Label != "Finish" {
		t.Fatalf("expected last step with Finish, step=%d", d.Step())
	}

	sub, err := d.Next()
	if err != nil || sub == nil {
		t.Fatalf("expected submission, got %v %v", sub, err)
	}
	if sub.Email != "ada@example.com" || sub.EmployeeID != "EMP1700000000123" || sub.Password != domain.DefaultPassword {
		t.Errorf("unexpected submission %+v", sub)
	}
	if d.Step() != 2 {
		t.Errorf("submission must not advance past the last step")
	}
}

func TestDialog_BackClearsErrors(t *testing.T) {
	var d Dialog
	d.Open(ModeCreate, nil, fixedNow)
	fillValid(t, &d)
	_, _ = d.Next()
	_ = d.Set(FieldEmail, "nope")
	if _, err := d.Next(); err == nil {
		t.Fatal("expected error on step 1")
	}

	d.Back()
	if d.Step() != 0 || len(d.Errors()) != 0 {
		t.Errorf("step=%d errors=%v", d.Step(), d.Errors())
	}
	d.Back()
	if d.Step() != 0 {
		t.Errorf("back must not go below step 0")
	}
}

func TestDialog_ViewModeIsReadOnly(t *testing.T) {
	var d Dialog
	d.Open(ModeView, &domain.User{FirstName: "Ada"}, fixedNow)

	if err := d.Set(FieldFirstName, "Eve"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Set in view mode: %v", err)
	}
	if _, err := d.Next(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Next in view mode: %v", err)
	}
	acts := d.Actions()
	if len(acts) != 2 || acts[1].Label != "Close" {
		t.Errorf("view actions = %+v", acts)
	}
	if d.Draft().FirstName != "Ada" {
		t.Error("draft must not change in view mode")
	}
}

func TestDialog_ClosedAndUnknownField(t *testing.T) {
	var d Dialog
	if err := d.Set(FieldEmail, "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	d.Open(ModeCreate, nil, fixedNow)
	if err := d.Set("salary", "1"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	d.Close()
	if d.IsOpen() || d.Draft().EmployeeID != "" {
		t.Error("close should discard state")
	}
}

func TestValidate_AllSteps(t *testing.T) {
	err := Validate(domain.User{FirstName: "Ada", LastName: "L", Email: "bad", Phone: "1"})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"Enter a valid email", "Enter a valid phone number", "Date of birth is required", "Role is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in %q", want, msg)
		}
	}
}
