package navigation

import (
	"sync"

	"github.com/rs/zerolog"
)

// Kind distinguishes in-app pushes from full-page redirects.
type Kind string

const (
	KindPush     Kind = "push"
	KindRedirect Kind = "redirect"
)

// Entry is one navigation in the history.
type Entry struct {
	Path string
	Kind Kind
}

// Recorder is the dashboard's navigator. It tracks the current route and
// history and notifies a listener, which the CLI uses to render the page.
type Recorder struct {
	mu       sync.Mutex
	current  string
	history  []Entry
	listener func(Entry)
	log      zerolog.Logger
}

func NewRecorder(start string, log zerolog.Logger) *Recorder {
	return &Recorder{current: start, log: log}
}

// OnNavigate registers the listener. It runs outside the lock.
func (r *Recorder) OnNavigate(fn func(Entry)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = fn
}

func (r *Recorder) Push(path string) {
	r.record(Entry{Path: path, Kind: KindPush})
}

func (r *Recorder) Redirect(path string) {
	r.record(Entry{Path: path, Kind: KindRedirect})
}

// Current returns the active route.
func (r *Recorder) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns a copy of every navigation so far.
func (r *Recorder) History() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Recorder) record(e Entry) {
	r.mu.Lock()
	r.current = e.Path
	r.history = append(r.history, e)
	listener := r.listener
	r.mu.Unlock()

	r.log.Debug().Str("path", e.Path).Str("kind", string(e.Kind)).Msg("navigate")
	if listener != nil {
		listener(e)
	}
}
