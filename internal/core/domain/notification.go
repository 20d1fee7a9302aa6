package domain

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// ParseSeverity accepts the four severities case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeveritySuccess, SeverityError, SeverityInfo, SeverityWarning:
		return sev, nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// Notification is a transient user-facing status message.
type Notification struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	ShownAt  time.Time `json:"shown_at"`
}
