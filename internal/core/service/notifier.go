package service

import (
	"sync"
	"time"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

// DefaultNotificationDuration is how long a notification stays visible.
const DefaultNotificationDuration = 4 * time.Second

// stopper is the subset of *time.Timer the notifier needs.
type stopper interface {
	Stop() bool
}

// Notifier is a single-slot notification channel. Show overwrites whatever
// is pending (last write wins); nothing is queued.
type Notifier struct {
	mu         sync.Mutex
	current    domain.Notification
	visible    bool
	generation uint64
	timer      stopper
	duration   time.Duration
	listener   func(domain.Notification, bool)

	now       func() time.Time
	afterFunc func(time.Duration, func()) stopper
}

func NewNotifier(duration time.Duration) *Notifier {
	if duration <= 0 {
		duration = DefaultNotificationDuration
	}
	return &Notifier{
		duration: duration,
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

// OnChange registers the display surface. It is called with the
// notification and its visibility after every change, outside the lock.
func (n *Notifier) OnChange(fn func(domain.Notification, bool)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listener = fn
}

// Show publishes message and restarts the auto-hide timer. Severity defaults
// to info.
func (n *Notifier) Show(message string, severity ...domain.Severity) {
	sev := domain.SeverityInfo
	if len(severity) > 0 && severity[0] != "" {
		sev = severity[0]
	}

	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.generation++
	gen := n.generation
	n.current = domain.Notification{Message: message, Severity: sev, ShownAt: n.now()}
	n.visible = true
	n.timer = n.afterFunc(n.duration, func() { n.expire(gen) })
	note, listener := n.current, n.listener
	n.mu.Unlock()

	if listener != nil {
		listener(note, true)
	}
}

// Dismiss hides the current notification immediately.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if !n.visible {
		n.mu.Unlock()
		return
	}
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.generation++
	n.visible = false
	note, listener := n.current, n.listener
	n.mu.Unlock()

	if listener != nil {
		listener(note, false)
	}
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (domain.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.visible
}

// expire hides the notification shown at generation gen. A timer that lost
// the race against a newer Show or a Dismiss is a no-op.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.generation || !n.visible {
		n.mu.Unlock()
		return
	}
	n.visible = false
	n.timer = nil
	note, listener := n.current, n.listener
	n.mu.Unlock()

	if listener != nil {
		listener(note, false)
	}
}
