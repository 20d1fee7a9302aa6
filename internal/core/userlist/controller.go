// Package userlist drives the users surface: the cached user list, the
// create mutation, the record dialog and pagination.
package userlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
	"github.com/99minutos/employee-dashboard/internal/core/ports"
	"github.com/99minutos/employee-dashboard/internal/core/query"
	"github.com/99minutos/employee-dashboard/internal/core/userform"
)

// QueryKey is the cache key of the user list.
const QueryKey = "users"

// Notifier is the notification channel as seen by the controller.
type Notifier interface {
	Show(message string, severity ...domain.Severity)
}

// Controller owns the rows shown on the users surface. Rows start as the
// server list; edits and deletes are applied locally until the next fetch.
type Controller struct {
	users  *query.Query[[]domain.User]
	create *query.Mutation[domain.User, *domain.User]
	notify Notifier
	log    zerolog.Logger
	now    func() time.Time

	mu     sync.Mutex
	rows   []domain.User
	dialog userform.Dialog
}

func NewController(client *query.Client, api ports.UserAPI, notify Notifier, log zerolog.Logger) *Controller {
	c := &Controller{
		notify: notify,
		log:    log,
		now:    time.Now,
	}
	c.users = query.NewQuery(client, QueryKey, api.ListUsers)
	c.create = query.NewMutation(client, api.CreateUser,
		query.WithMutationName("create_user"),
		query.InvalidateOnSuccess(QueryKey),
		query.OnError(func(err error) {
			log.Error().Err(err).Msg("failed to create user")
		}),
	)
	return c
}

// Close detaches the list query from the cache.
func (c *Controller) Close() {
	c.users.Close()
}

// Load fetches the list on first display.
func (c *Controller) Load(ctx context.Context) ([]domain.User, error) {
	users, err := c.users.Load(ctx)
	return c.applyLoad(users, err)
}

// Retry refetches the list regardless of the cache.
func (c *Controller) Retry(ctx context.Context) ([]domain.User, error) {
	users, err := c.users.Refetch(ctx)
	return c.applyLoad(users, err)
}

func (c *Controller) applyLoad(users []domain.User, err error) ([]domain.User, error) {
	if err != nil {
		c.report(err)
		return nil, err
	}
	c.mu.Lock()
	c.rows = append([]domain.User(nil), users...)
	c.mu.Unlock()
	return c.Rows(), nil
}

// State exposes the list query state.
func (c *Controller) State() query.State[[]domain.User] {
	return c.users.State()
}

// LoadError formats a list failure for display.
func LoadError(err error) string {
	msg := "Unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return "Error loading users: " + msg
}

// Rows returns a copy of the current rows.
func (c *Controller) Rows() []domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.User(nil), c.rows...)
}

// Find returns the row with id.
func (c *Controller) Find(id domain.UserID) (domain.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.rows {
		if r.ID == id {
			return r, true
		}
	}
	return domain.User{}, false
}

// Dialog returns the record dialog.
func (c *Controller) Dialog() *userform.Dialog {
	return &c.dialog
}

// OpenCreate opens the dialog with fresh defaults.
func (c *Controller) OpenCreate() {
	c.dialog.Open(userform.ModeCreate, nil, c.now())
}

// OpenRecord opens the dialog on an existing row in edit or view mode.
func (c *Controller) OpenRecord(mode userform.Mode, id domain.UserID) error {
	row, ok := c.Find(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	c.dialog.Open(mode, &row, c.now())
	return nil
}

// Advance is the dialog's Next/Finish control. On the last step it submits.
func (c *Controller) Advance(ctx context.Context) error {
	if c.dialog.Mode() == userform.ModeView {
		c.dialog.Close()
		return nil
	}
	submission, err := c.dialog.Next()
	if err != nil || submission == nil {
		return err
	}
	return c.Submit(ctx, c.dialog.Mode(), *submission)
}

// Submit applies a finished dialog. Create calls the API, and on success the
// dialog closes and the list is reloaded; on failure the dialog stays open.
// Edit replaces the row locally. View just closes.
func (c *Controller) Submit(ctx context.Context, mode userform.Mode, user domain.User) error {
	switch mode {
	case userform.ModeCreate:
		created, err := c.create.Do(ctx, user)
		if err != nil {
			c.report(err)
			return err
		}
		c.dialog.Close()
		c.log.Info().Str("email", created.Email).Msg("user created")
		c.notify.Show("User created successfully", domain.SeveritySuccess)
		if _, err := c.Load(ctx); err != nil {
			c.log.Warn().Err(err).Msg("reload after create failed")
		}
		return nil

	case userform.ModeEdit:
		c.mu.Lock()
		for i := range c.rows {
			if c.rows[i].ID == user.ID {
				c.rows[i] = user
			}
		}
		c.mu.Unlock()
		c.log.Info().Str("id", string(user.ID)).Msg("user updated locally")
		c.dialog.Close()
		return nil
	}

	c.dialog.Close()
	return nil
}

// Delete removes a row locally. The API has no delete call.
func (c *Controller) Delete(id domain.UserID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.rows {
		if r.ID == id {
			c.rows = append(c.rows[:i:i], c.rows[i+1:]...)
			c.log.Info().Str("id", string(id)).Msg("user removed locally")
			return true
		}
	}
	return false
}

// report shows a request failure unless the session already expired, in
// which case the redirect to login is the user-visible outcome.
func (c *Controller) report(err error) {
	if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, context.Canceled) {
		return
	}
	c.notify.Show(err.Error(), domain.SeverityError)
}
