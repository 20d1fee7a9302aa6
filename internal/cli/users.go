package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/query"
	"github.com/99minutos/employee-dashboard/internal/core/userform"
	"github.com/99minutos/employee-dashboard/internal/core/userlist"
	"github.com/99minutos/employee-dashboard/internal/pkg/validation"
)

func usersCommand(env *Env) *Command {
	return &Command{
		Name:    "users",
		Summary: "Manage employee accounts (admin)",
		Subcommands: []*Command{
			usersListCommand(env),
			usersCreateCommand(env),
			usersShowCommand(env),
			usersEditCommand(env),
			usersDeleteCommand(env),
		},
	}
}

func usersListCommand(env *Env) *Command {
	var page, rows int
	var refetch bool
	return &Command{
		Name:    "list",
		Summary: "Show a page of the users table",
		Examples: []Example{
			{Command: "dashboard users list --page 2 --rows 25"},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
			fs.IntVar(&page, "page", 1, "page number, starting at 1")
			fs.IntVar(&rows, "rows", userlist.DefaultRowsPerPage, "rows per page (5, 10 or 25)")
			fs.BoolVar(&refetch, "refetch", false, "ignore the cache and fetch again")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := env.requireRoute(domain.RouteUsers); err != nil {
				return err
			}
			if err := env.loadUsers(ctx, refetch); err != nil {
				return err
			}
			fmt.Fprintln(env.Out, RenderUsers(env.App.Users.Page(page-1, rows)))
			return nil
		},
	}
}

// loadUsers fetches the list, printing the retry hint on failure. An
// expired session is reported by the navigation listener instead.
func (e *Env) loadUsers(ctx context.Context, refetch bool) error {
	var err error
	if refetch {
		_, err = e.App.Users.Retry(ctx)
	} else {
		_, err = e.App.Users.Load(ctx)
	}
	if err != nil && !errors.Is(err, domain.ErrSessionExpired) {
		fmt.Fprintln(e.Out, errorStyle.Render(userlist.LoadError(err)))
		fmt.Fprintln(e.Out, mutedStyle.Render("Run 'users list --refetch' to retry."))
	}
	return err
}

// ensureUsers loads the list unless this process already holds it, so
// local edits survive between shell commands.
func (e *Env) ensureUsers(ctx context.Context) error {
	if e.App.Users.State().Status == query.StatusSuccess {
		return nil
	}
	return e.loadUsers(ctx, false)
}

func usersCreateCommand(env *Env) *Command {
	values := map[string]*string{}
	var interactive bool
	return &Command{
		Name:    "create",
		Summary: "Create a user through the three-step dialog",
		Examples: []Example{
			{Command: "dashboard users create --first-name Ada --last-name Lovelace --email ada@example.com --phone 5551234567 --date-of-birth 1815-12-10 --role manager"},
			{Description: "Prompt for every missing field", Command: "dashboard users create -i"},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
			for _, step := range userform.StepFields {
				for _, field := range step {
					values[field] = fs.String(flagName(field), "", field)
				}
			}
			fs.BoolVarP(&interactive, "interactive", "i", false, "prompt for missing fields")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := env.requireRoute(domain.RouteUsers); err != nil {
				return err
			}
			if err := env.ensureUsers(ctx); err != nil {
				return err
			}

			users := env.App.Users
			users.OpenCreate()
			d := users.Dialog()
			defer d.Close()

			for d.IsOpen() {
				for _, field := range userform.StepFields[d.Step()] {
					v := *values[field]
					if v == "" && interactive && fieldValue(d.Draft(), field) == "" {
						var err error
						if v, err = env.Prompt.ReadLine(field + ": "); err != nil {
							return err
						}
					}
					if v == "" {
						continue
					}
					if err := d.Set(field, v); err != nil {
						return err
					}
				}

				if err := users.Advance(ctx); err != nil {
					if errors.Is(err, domain.ErrValidation) {
						fmt.Fprintln(env.Out, RenderDialog(d))
					}
					return err
				}
			}

			fmt.Fprintln(env.Out, RenderUsers(users.Page(lastPage(users), userlist.DefaultRowsPerPage)))
			return nil
		},
	}
}

func usersShowCommand(env *Env) *Command {
	return &Command{
		Name:    "show",
		Summary: "Show a user record read-only",
		Usage:   "dashboard users show <id>",
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: dashboard users show <id>")
			}
			if err := env.requireRoute(domain.RouteUsers); err != nil {
				return err
			}
			if err := env.ensureUsers(ctx); err != nil {
				return err
			}

			users := env.App.Users
			if err := users.OpenRecord(userform.ModeView, domain.UserID(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(env.Out, RenderDialog(users.Dialog()))
			fmt.Fprintln(env.Out, renderRecord(users.Dialog().Draft()))
			return users.Advance(ctx)
		},
	}
}

func usersEditCommand(env *Env) *Command {
	var sets []string
	return &Command{
		Name:    "edit",
		Summary: "Edit a user record (kept locally until the next refetch)",
		Usage:   "dashboard users edit <id> --set field=value...",
		Examples: []Example{
			{Command: "dashboard users edit 3 --set role=manager --set phone=5559876543"},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("edit", pflag.ContinueOnError)
			fs.StringArrayVar(&sets, "set", nil, "field=value to change (repeatable)")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: dashboard users edit <id> --set field=value")
			}
			if err := env.requireRoute(domain.RouteUsers); err != nil {
				return err
			}
			if err := env.ensureUsers(ctx); err != nil {
				return err
			}

			users := env.App.Users
			if err := users.OpenRecord(userform.ModeEdit, domain.UserID(args[0])); err != nil {
				return err
			}
			d := users.Dialog()
			defer d.Close()

			for _, kv := range sets {
				field, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("--set %q: expected field=value", kv)
				}
				if err := d.Set(strings.TrimSpace(field), value); err != nil {
					return err
				}
			}
			for d.IsOpen() {
				if err := users.Advance(ctx); err != nil {
					var fieldErrs validation.Errors
					if errors.As(err, &fieldErrs) {
						fmt.Fprintln(env.Out, RenderDialog(d))
					}
					return err
				}
			}

			row, _ := users.Find(domain.UserID(args[0]))
			fmt.Fprintln(env.Out, renderRecord(row))
			return nil
		},
	}
}

func usersDeleteCommand(env *Env) *Command {
	return &Command{
		Name:    "delete",
		Summary: "Remove a row from the table (local only; the API has no delete)",
		Usage:   "dashboard users delete <id>",
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: dashboard users delete <id>")
			}
			if err := env.requireRoute(domain.RouteUsers); err != nil {
				return err
			}
			if err := env.ensureUsers(ctx); err != nil {
				return err
			}
			if !env.App.Users.Delete(domain.UserID(args[0])) {
				return domain.ErrUserNotFound
			}
			fmt.Fprintf(env.Out, "removed %s\n", args[0])
			return nil
		},
	}
}

func renderRecord(u domain.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %-14s %s\n", "id", u.ID)
	for _, step := range userform.StepFields {
		for _, field := range step {
			if field == userform.FieldPassword {
				continue
			}
			fmt.Fprintf(&b, "  %-14s %s\n", field, fieldValue(u, field))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func lastPage(c *userlist.Controller) int {
	p := c.Page(0, userlist.DefaultRowsPerPage)
	return p.Pages() - 1
}
