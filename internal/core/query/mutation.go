package query

import (
	"context"
)

// MutationOption customises a Mutation.
type MutationOption func(*mutationConfig)

type mutationConfig struct {
	name       string
	retry      RetryPolicy
	invalidate []string
	onError    func(error)
	onSuccess  func()
}

// WithMutationName labels the mutation in metrics and logs.
func WithMutationName(name string) MutationOption {
	return func(c *mutationConfig) { c.name = name }
}

// WithMutationRetry enables retries. Mutations do not retry by default.
func WithMutationRetry(p RetryPolicy) MutationOption {
	return func(c *mutationConfig) { c.retry = p }
}

// InvalidateOnSuccess names the keys dropped after a successful call.
func InvalidateOnSuccess(keys ...string) MutationOption {
	return func(c *mutationConfig) { c.invalidate = append(c.invalidate, keys...) }
}

// OnError registers the caller's error handler.
func OnError(fn func(error)) MutationOption {
	return func(c *mutationConfig) { c.onError = fn }
}

// OnSuccess runs after invalidation and before Do returns.
func OnSuccess(fn func()) MutationOption {
	return func(c *mutationConfig) { c.onSuccess = fn }
}

// Mutation wraps a write call.
type Mutation[In, Out any] struct {
	client *Client
	fn     func(ctx context.Context, in In) (Out, error)
	cfg    mutationConfig
}

func NewMutation[In, Out any](client *Client, fn func(ctx context.Context, in In) (Out, error), opts ...MutationOption) *Mutation[In, Out] {
	cfg := mutationConfig{name: "mutation", retry: DefaultWriteRetry}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Mutation[In, Out]{client: client, fn: fn, cfg: cfg}
}

// Do performs the call. On success the configured keys are invalidated
// before Do returns, so any read issued afterwards fetches fresh data.
func (m *Mutation[In, Out]) Do(ctx context.Context, in In) (Out, error) {
	var out Out
	err := m.cfg.retry.Run(ctx, func(ctx context.Context) error {
		var err error
		out, err = m.fn(ctx, in)
		return err
	})
	if err != nil {
		FetchTotal.WithLabelValues(m.cfg.name, "error").Inc()
		m.client.log.Warn().Err(err).Str("mutation", m.cfg.name).Msg("mutation failed")
		if m.cfg.onError != nil {
			m.cfg.onError(err)
		}
		var zero Out
		return zero, err
	}

	FetchTotal.WithLabelValues(m.cfg.name, "success").Inc()
	// A failed store delete still bumped the generations; the error is logged there.
	_ = m.client.Invalidate(ctx, m.cfg.invalidate...)
	if m.cfg.onSuccess != nil {
		m.cfg.onSuccess()
	}
	return out, nil
}
