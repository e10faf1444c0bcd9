package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukbill/tally/internal/service"
)

var (
	// ErrRateLimit marks an error caused by an exhausted API quota.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries is returned once every attempt has failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError lets an operation state explicitly whether its
// failure is worth retrying. Errors that don't carry one are retried.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// WithRetry runs op with exponential backoff until it succeeds, fails
// permanently, exhausts opts.MaxAttempts, or ctx is done. Rate-limited
// attempts skip straight to the longest delay.
func WithRetry(ctx context.Context, op func() error, opts service.RetryOptions) error {
	opts = withRetryDefaults(opts)

	delay := opts.InitialDelay
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		var rerr *RetryableError
		if errors.As(err, &rerr) && !rerr.Retryable {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrMaxRetries, attempt, err)
		}

		if errors.Is(err, ErrRateLimit) {
			delay = opts.MaxDelay
		}

		slog.Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = min(time.Duration(float64(delay)*opts.Multiplier), opts.MaxDelay)
	}
}

func withRetryDefaults(opts service.RetryOptions) service.RetryOptions {
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
	return opts
}
