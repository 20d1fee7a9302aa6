package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/pflag"

	"github.com/99minutos/employee-dashboard/internal/app"
	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/service"
	"github.com/99minutos/employee-dashboard/internal/infrastructure/navigation"
	"github.com/99minutos/employee-dashboard/internal/pkg/validation"
)

// Env is what every command runs against.
type Env struct {
	App    *app.App
	Out    io.Writer
	Prompt Prompter
}

// NewEnv attaches the notification surface and the navigation listener to
// out. A nil prompter disables interactive input.
func NewEnv(a *app.App, out io.Writer, prompt Prompter) *Env {
	if prompt == nil {
		prompt = noPrompter{}
	}
	e := &Env{App: a, Out: out, Prompt: prompt}

	a.Notifier.OnChange(func(n domain.Notification, visible bool) {
		if visible {
			fmt.Fprintln(out, RenderNotification(n))
		}
	})
	a.Nav.OnNavigate(func(entry navigation.Entry) {
		if entry.Kind == navigation.KindRedirect && entry.Path == domain.RouteLogin {
			fmt.Fprintln(out, mutedStyle.Render("Signed out. Run 'login' to continue."))
		}
	})
	return e
}

// Root builds the command tree.
func Root(env *Env) *Command {
	root := &Command{
		Name:    "dashboard",
		Summary: "Employee dashboard client",
		Subcommands: []*Command{
			loginCommand(env),
			logoutCommand(env),
			whoamiCommand(env),
			tabsCommand(env),
			usersCommand(env),
		},
	}
	root.Subcommands = append(root.Subcommands, shellCommand(env, root))
	return root
}

func loginCommand(env *Env) *Command {
	var email, password string
	return &Command{
		Name:    "login",
		Summary: "Sign in with email and password",
		Examples: []Example{
			{Description: "Prompt for the password", Command: "dashboard login --email admin@example.com"},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
			fs.StringVar(&email, "email", "", "account email")
			fs.StringVar(&password, "password", "", "account password (prompted when empty)")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			var err error
			if email == "" {
				if email, err = env.Prompt.ReadLine("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = env.Prompt.ReadPassword("Password: "); err != nil {
					return err
				}
			}
			defer func() { email, password = "", "" }()

			err = env.App.Auth.Login(ctx, service.Credentials{Email: strings.TrimSpace(email), Password: password})
			var fieldErrs validation.Errors
			if errors.As(err, &fieldErrs) {
				for _, field := range fieldErrs.Fields() {
					fmt.Fprintf(env.Out, "%s: %s\n", field, errorStyle.Render(fieldErrs[field]))
				}
			}
			return err
		},
	}
}

func logoutCommand(env *Env) *Command {
	return &Command{
		Name:    "logout",
		Summary: "Clear the session",
		Run: func(ctx context.Context, args []string) error {
			env.App.Auth.Logout()
			return nil
		},
	}
}

// cookieJar is implemented by the cookie stores that can list their
// contents.
type cookieJar interface {
	Cookies() []*http.Cookie
}

func whoamiCommand(env *Env) *Command {
	var showCookies bool
	return &Command{
		Name:    "whoami",
		Summary: "Show the current session",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			fs.BoolVar(&showCookies, "cookies", false, "also list the stored session cookies")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			s := env.App.Session().Current()
			switch {
			case s.IsEmpty():
				fmt.Fprintln(env.Out, "not signed in")
			case !s.Authenticated():
				fmt.Fprintf(env.Out, "partial session: token=%t role=%q\n", s.HasToken(), s.Role)
			default:
				fmt.Fprintf(env.Out, "signed in as %s\n", s.Role)
			}
			fmt.Fprintf(env.Out, "route: %s\n", env.App.Nav.Current())

			if showCookies {
				jar, ok := env.App.Cookies.(cookieJar)
				if !ok {
					return fmt.Errorf("cookie store cannot list its contents")
				}
				for _, c := range jar.Cookies() {
					fmt.Fprintf(env.Out, "cookie %s=%s path=%s\n", c.Name, maskCookie(c), c.Path)
				}
			}
			return nil
		},
	}
}

// maskCookie hides the token so it never lands in terminal scrollback.
func maskCookie(c *http.Cookie) string {
	if c.Name != domain.CookieToken || c.Value == "" {
		return c.Value
	}
	return "****"
}

func tabsCommand(env *Env) *Command {
	return &Command{
		Name:    "tabs",
		Summary: "Show the navigation tabs visible to the session",
		Run: func(ctx context.Context, args []string) error {
			fmt.Fprintln(env.Out, RenderTabs(env.App.Session().Current(), env.App.Nav.Current()))
			return nil
		},
	}
}

// requireRoute opens path when the session may visit it.
func (e *Env) requireRoute(path string) error {
	s := e.App.Session().Current()
	if !s.HasToken() {
		return fmt.Errorf("%w: run 'login' first", domain.ErrNotAuthenticated)
	}
	if !domain.CanVisit(s, path) {
		return fmt.Errorf("%w: %s is not available to role %q", domain.ErrForbidden, path, s.Role)
	}
	if e.App.Nav.Current() != path {
		e.App.Nav.Push(path)
	}
	return nil
}
