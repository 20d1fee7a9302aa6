package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// DefaultPassword is assigned to accounts created from the dashboard; the
// employee changes it on first login.
const DefaultPassword = "1234567"

// UserID is the server-assigned identifier. The API may emit it as a JSON
// number or string; both decode to the same textual form.
type UserID string

func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

func (id UserID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	// Only the canonical decimal form goes out bare; "007" or "+5" would
	// not be valid JSON numbers.
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// User models an employee record owned by the API.
type User struct {
	ID           UserID `json:"id,omitempty"`
	EmployeeID   string `json:"employee_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	DateOfBirth  string `json:"date_of_birth"`
	Role         string `json:"role"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"-"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SuggestEmployeeID derives the default employee id offered at creation.
func SuggestEmployeeID(now time.Time) string {
	return "EMP" + strconv.FormatInt(now.UnixMilli(), 10)
}

// NewUserDraft returns the defaults a fresh create dialog starts from.
func NewUserDraft(now time.Time) User {
	return User{
		EmployeeID: SuggestEmployeeID(now),
		Password:   DefaultPassword,
	}
}
