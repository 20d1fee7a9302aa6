package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/userform"
	"github.com/99minutos/employee-dashboard/internal/core/userlist"
)

var severityColors = map[domain.Severity]lipgloss.Color{
	domain.SeveritySuccess: lipgloss.Color("42"),
	domain.SeverityError:   lipgloss.Color("196"),
	domain.SeverityWarning: lipgloss.Color("214"),
	domain.SeverityInfo:    lipgloss.Color("39"),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(severityColors[domain.SeverityError])
	activeStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// RenderNotification draws the notification surface: one bordered line
// coloured by severity.
func RenderNotification(n domain.Notification) string {
	color, ok := severityColors[n.Severity]
	if !ok {
		color = severityColors[domain.SeverityInfo]
	}
	label := lipgloss.NewStyle().Bold(true).Foreground(color).Render(strings.ToUpper(string(n.Severity)))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(label + "  " + n.Message)
}

// RenderUsers draws one page of the users table with its footer.
func RenderUsers(p userlist.Page) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Employee ID", "Name", "Email", "Phone", "Date of Birth", "Role").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, u := range p.Rows {
		t.Row(string(u.ID), u.EmployeeID, u.FullName(), u.Email, u.Phone, u.DateOfBirth, u.Role)
	}

	first, last := 0, 0
	if p.Total > 0 {
		first = p.Page*p.RowsPerPage + 1
		last = first + len(p.Rows) - 1
	}
	footer := mutedStyle.Render(fmt.Sprintf("%d-%d of %d  page %d/%d  rows per page %d",
		first, last, p.Total, p.Page+1, p.Pages(), p.RowsPerPage))
	return t.String() + "\n" + footer
}

// RenderTabs draws the navigation shell for a session, marking the active
// route.
func RenderTabs(s domain.Session, current string) string {
	tabs := domain.VisibleTabs(s)
	if len(tabs) == 0 {
		return mutedStyle.Render("not signed in")
	}
	labels := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.Path == current {
			labels = append(labels, activeStyle.Render(t.Label))
			continue
		}
		labels = append(labels, t.Label)
	}
	profile := make([]string, 0, len(domain.ProfileTabs))
	for _, t := range domain.ProfileTabs {
		profile = append(profile, t.Label)
	}
	return strings.Join(labels, "  |  ") + "\n" + mutedStyle.Render("Account: "+strings.Join(profile, ", "))
}

// RenderDialog draws the active step of the record dialog, its field values
// and errors, and the action row.
func RenderDialog(d *userform.Dialog) string {
	var b strings.Builder
	for i, title := range userform.Steps {
		marker := fmt.Sprintf("%d. %s", i+1, title)
		switch {
		case d.StepFailed(i):
			marker = errorStyle.Render(marker)
		case i == d.Step():
			marker = activeStyle.Render(marker)
		default:
			marker = mutedStyle.Render(marker)
		}
		b.WriteString(marker)
		if i < len(userform.Steps)-1 {
			b.WriteString("  >  ")
		}
	}
	b.WriteString("\n\n")

	draft := d.Draft()
	errs := d.Errors()
	for _, field := range userform.StepFields[d.Step()] {
		if field == userform.FieldPassword && d.Mode() != userform.ModeCreate {
			continue
		}
		fmt.Fprintf(&b, "  %-14s %s\n", field, fieldValue(draft, field))
		if msg := errs[field]; msg != "" {
			b.WriteString("  " + errorStyle.Render(msg) + "\n")
		}
	}

	actions := d.Actions()
	labels := make([]string, 0, len(actions))
	for _, a := range actions {
		if a.Disabled {
			labels = append(labels, mutedStyle.Render("["+a.Label+"]"))
			continue
		}
		labels = append(labels, "["+a.Label+"]")
	}
	b.WriteString("\n" + strings.Join(labels, " "))
	return b.String()
}

func fieldValue(u domain.User, field string) string {
	switch field {
	case userform.FieldEmployeeID:
		return u.EmployeeID
	case userform.FieldFirstName:
		return u.FirstName
	case userform.FieldLastName:
		return u.LastName
	case userform.FieldEmail:
		return u.Email
	case userform.FieldPhone:
		return u.Phone
	case userform.FieldDateOfBirth:
		return u.DateOfBirth
	case userform.FieldRole:
		return u.Role
	case userform.FieldPassword:
		return strings.Repeat("*", len(u.Password))
	}
	return ""
}
