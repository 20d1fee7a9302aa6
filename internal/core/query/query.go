package query

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Status is the lifecycle of a Query.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is a snapshot of a Query. Data keeps the last successful value while
// a refetch is loading or after it fails.
type State[T any] struct {
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
	// Stale is set when the key was invalidated after Data was loaded.
	Stale bool
}

// QueryOption customises a Query.
type QueryOption func(*queryConfig)

type queryConfig struct {
	retry     *RetryPolicy
	staleTime *time.Duration
}

// WithQueryRetry overrides the client's read retry policy.
func WithQueryRetry(p RetryPolicy) QueryOption {
	return func(c *queryConfig) { c.retry = &p }
}

// WithQueryStaleTime overrides the client's stale time.
func WithQueryStaleTime(d time.Duration) QueryOption {
	return func(c *queryConfig) { c.staleTime = &d }
}

// Query binds a key to a fetch function.
type Query[T any] struct {
	client    *Client
	key       string
	fetchFn   func(ctx context.Context) (T, error)
	retry     RetryPolicy
	staleTime time.Duration

	mu    sync.Mutex
	state State[T]

	unsubscribe func()
}

// NewQuery creates an idle query. Call Close to stop tracking invalidations.
func NewQuery[T any](client *Client, key string, fetch func(ctx context.Context) (T, error), opts ...QueryOption) *Query[T] {
	var cfg queryConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	q := &Query[T]{
		client:    client,
		key:       key,
		fetchFn:   fetch,
		retry:     client.retry,
		staleTime: client.staleTime,
	}
	if cfg.retry != nil {
		q.retry = *cfg.retry
	}
	if cfg.staleTime != nil {
		q.staleTime = *cfg.staleTime
	}
	q.unsubscribe = client.Subscribe(key, func(string) { q.markStale() })
	return q
}

// Key returns the cache key.
func (q *Query[T]) Key() string {
	return q.key
}

// Load is the fetch-on-mount read: it serves a stored result younger than
// the stale time, otherwise it fetches.
func (q *Query[T]) Load(ctx context.Context) (T, error) {
	if entry, ok := q.client.cached(ctx, q.key, q.staleTime); ok && !q.State().Stale {
		var v T
		if err := json.Unmarshal(entry.Data, &v); err == nil {
			q.succeed(v, entry.UpdatedAt)
			return v, nil
		}
		q.client.log.Warn().Str("key", q.key).Msg("undecodable cache entry, refetching")
	}
	return q.Refetch(ctx)
}

// Refetch always goes to the network.
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	q.mu.Lock()
	q.state.Status = StatusLoading
	q.state.Err = nil
	q.mu.Unlock()

	v, err := q.client.fetch(ctx, q.key, q.retry, func(ctx context.Context) (Entry, any, error) {
		out, err := q.fetchFn(ctx)
		if err != nil {
			return Entry{}, nil, err
		}
		data, err := json.Marshal(out)
		if err != nil {
			return Entry{}, nil, fmt.Errorf("query %s: encode result: %w", q.key, err)
		}
		return Entry{Data: data, UpdatedAt: q.client.now()}, out, nil
	})
	if err != nil {
		q.fail(err)
		var zero T
		return zero, err
	}

	out, _ := v.(T)
	q.succeed(out, q.client.now())
	return out, nil
}

// State returns a snapshot.
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Close detaches the query from invalidation notices.
func (q *Query[T]) Close() {
	q.unsubscribe()
}

func (q *Query[T]) succeed(v T, at time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.state = State[T]{Status: StatusSuccess, Data: v, UpdatedAt: at}
}

func (q *Query[T]) fail(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.state.Status = StatusError
	q.state.Err = err
}

func (q *Query[T]) markStale() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state.Status != StatusIdle {
		q.state.Stale = true
	}
}
