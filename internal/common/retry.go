package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GRBadas/Planilha-Django/internal/service"
)

// ErrMaxRetries wraps the last failure once every attempt has been used.
var ErrMaxRetries = errors.New("max retries exceeded")

// RetryableError overrides IsRetryable for the wrapped error.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, Retryable: false}
}

type backoff struct {
	opts  service.RetryOptions
	delay time.Duration
}

func newBackoff(opts service.RetryOptions) *backoff {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}
	return &backoff{opts: opts, delay: opts.InitialDelay}
}

// next returns how long to wait after err. A server Retry-After hint replaces
// the computed delay, capped at MaxDelay.
func (b *backoff) next(err error) time.Duration {
	wait := b.delay
	b.delay = min(time.Duration(float64(b.delay)*b.opts.Multiplier), b.opts.MaxDelay)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		wait = apiErr.RetryAfter
	}
	return min(wait, b.opts.MaxDelay)
}

// WithRetry runs operation until it succeeds, returns a Permanent error, or
// runs out of attempts. Cancelling ctx stops the wait between attempts.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	b := newBackoff(opts)

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		var retryableErr *RetryableError
		if errors.As(err, &retryableErr) && !retryableErr.Retryable {
			return retryableErr.Err
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt >= b.opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempt, err)
		}

		wait := b.next(err)
		LogWarn(err, "operation failed, retrying", Fields{
			"attempt":      attempt,
			"max_attempts": b.opts.MaxAttempts,
			"delay":        wait,
		})

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
