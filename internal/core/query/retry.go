package query

import (
	"context"
	"errors"
	"time"

	"github.com/99minutos/employee-dashboard/internal/core/domain"
)

// RetryPolicy retries a failed call up to Retries extra times, waiting Delay
// between attempts.
type RetryPolicy struct {
	Retries int
	Delay   time.Duration
}

// Default policies: one silent retry for reads, none for writes.
var (
	DefaultReadRetry  = RetryPolicy{Retries: 1, Delay: time.Second}
	DefaultWriteRetry = RetryPolicy{}
)

// Run calls fn until it succeeds, returns a non-retryable error, or the
// retries are exhausted. The last error is returned.
func (p RetryPolicy) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil || attempt >= p.Retries || !Retryable(err) {
			return err
		}
		if p.Delay > 0 {
			timer := time.NewTimer(p.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return err
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return err
		}
	}
}

// Retryable reports whether err may succeed on another attempt. An expired
// session has already redirected to login and a cancelled context is final.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
