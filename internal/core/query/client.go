// Package query is a small request cache keyed by logical resource name.
// Reads go through Query, writes through Mutation; a successful Mutation
// invalidates the keys it names so the next read fetches again.
package query

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Client owns the store, the per-key generations and the subscribers.
type Client struct {
	store     Store
	log       zerolog.Logger
	retry     RetryPolicy
	staleTime time.Duration
	now       func() time.Time

	group singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64
	subscribers map[string]map[uint64]func(key string)
	nextSubID   uint64
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithRetry sets the default read retry policy.
func WithRetry(p RetryPolicy) ClientOption {
	return func(c *Client) { c.retry = p }
}

// WithStaleTime sets how long a stored result is served without fetching.
// Zero means every Load fetches.
func WithStaleTime(d time.Duration) ClientOption {
	return func(c *Client) { c.staleTime = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// NewClient returns a Client over store. A nil store means a MemoryStore.
func NewClient(store Store, log zerolog.Logger, opts ...ClientOption) *Client {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Client{
		store:       store,
		log:         log,
		retry:       DefaultReadRetry,
		now:         time.Now,
		generations: make(map[string]uint64),
		subscribers: make(map[string]map[uint64]func(string)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate marks keys stale: their stored results are dropped, fetches
// already in flight will not be cached, and subscribers are notified.
func (c *Client) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	var notify []func(string)
	var notifyKeys []string
	c.mu.Lock()
	for _, k := range keys {
		c.generations[k]++
		for _, fn := range c.subscribers[k] {
			notify = append(notify, fn)
			notifyKeys = append(notifyKeys, k)
		}
	}
	c.mu.Unlock()

	err := c.store.Delete(ctx, keys...)
	if err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("query store delete failed")
	}
	c.log.Debug().Strs("keys", keys).Msg("queries invalidated")

	for i, fn := range notify {
		fn(notifyKeys[i])
	}
	return err
}

// Subscribe registers fn to run after key is invalidated. The returned func
// removes the subscription.
func (c *Client) Subscribe(key string, fn func(key string)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	if c.subscribers[key] == nil {
		c.subscribers[key] = make(map[uint64]func(string))
	}
	c.subscribers[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers[key], id)
			if len(c.subscribers[key]) == 0 {
				delete(c.subscribers, key)
			}
		})
	}
}

func (c *Client) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

// fetch runs fn for key, sharing the call with concurrent fetches of the
// same key and generation. The shared call runs detached from any one
// caller's cancellation; each caller stops waiting when its own ctx ends.
// A result is stored only if key was not invalidated while the fetch ran.
func (c *Client) fetch(ctx context.Context, key string, retry RetryPolicy, fn func(ctx context.Context) (Entry, any, error)) (any, error) {
	gen := c.generation(key)
	flightKey := key + "@" + strconv.FormatUint(gen, 10)
	flightCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(flightKey, func() (any, error) {
		var entry Entry
		var value any
		err := retry.Run(flightCtx, func(ctx context.Context) error {
			var err error
			entry, value, err = fn(ctx)
			return err
		})
		if err != nil {
			FetchTotal.WithLabelValues(key, "error").Inc()
			return nil, err
		}
		FetchTotal.WithLabelValues(key, "success").Inc()
		c.storeIfCurrent(flightCtx, key, gen, entry)
		return value, nil
	})

	select {
	case <-ctx.Done():
		c.log.Debug().Str("key", key).Msg("caller stopped waiting for fetch")
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.log.Debug().Str("key", key).Msg("joined in-flight fetch")
		}
		return res.Val, res.Err
	}
}

func (c *Client) storeIfCurrent(ctx context.Context, key string, gen uint64, entry Entry) {
	if c.generation(key) != gen {
		c.log.Debug().Str("key", key).Msg("discarding result of invalidated fetch")
		return
	}
	if err := c.store.Set(ctx, key, entry); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("query store write failed")
	}
}

// cached returns the stored entry for key when it is younger than maxAge.
func (c *Client) cached(ctx context.Context, key string, maxAge time.Duration) (Entry, bool) {
	if maxAge <= 0 {
		return Entry{}, false
	}
	entry, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.log.Warn().Err(err).Str("key", key).Msg("query store read failed")
		CacheTotal.WithLabelValues(key, "miss").Inc()
		return Entry{}, false
	case !ok:
		CacheTotal.WithLabelValues(key, "miss").Inc()
		return Entry{}, false
	case c.now().Sub(entry.UpdatedAt) >= maxAge:
		CacheTotal.WithLabelValues(key, "stale").Inc()
		return Entry{}, false
	}
	CacheTotal.WithLabelValues(key, "hit").Inc()
	return entry, true
}
