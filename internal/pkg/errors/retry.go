package errors

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig contains configuration for retry logic.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc func(ctx context.Context) error

// RetryCallback is called before each retry.
type RetryCallback func(attempt int, err error, delay time.Duration)

// Retry executes fn until it succeeds, fails with a non-retryable error or
// runs out of attempts.
func Retry(ctx context.Context, config RetryConfig, fn RetryFunc) error {
	return RetryWithNotify(ctx, config, fn, nil)
}

// RetryWithNotify is Retry with a callback invoked before every retry.
func RetryWithNotify(ctx context.Context, config RetryConfig, fn RetryFunc, notify RetryCallback) error {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	var lastErr error
	attempt := 0
	operation := func() error {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return backoff.Permanent(lastErr)
		}
		return lastErr
	}

	b := backoff.WithContext(newRetryAfterBackOff(config, &lastErr), ctx)
	err := backoff.RetryNotify(operation, b, func(err error, delay time.Duration) {
		attempt++
		LogRetry(attempt, config.MaxAttempts, err, delay)
		if notify != nil {
			notify(attempt, err, delay)
		}
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil && lastErr != nil && IsRetryable(lastErr) {
		return ctx.Err()
	}
	if lastErr != nil {
		return lastErr
	}
	return err
}

// retryAfterBackOff honours a server supplied Retry-After before falling back
// to exponential delays.
type retryAfterBackOff struct {
	inner   backoff.BackOff
	lastErr *error
}

func newRetryAfterBackOff(config RetryConfig, lastErr *error) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = config.InitialDelay
	exp.MaxInterval = config.MaxDelay
	exp.Multiplier = config.Multiplier
	exp.MaxElapsedTime = 0
	if config.Jitter {
		exp.RandomizationFactor = 0.25
	} else {
		exp.RandomizationFactor = 0
	}
	exp.Reset()

	return &retryAfterBackOff{
		inner:   backoff.WithMaxRetries(exp, uint64(config.MaxAttempts-1)),
		lastErr: lastErr,
	}
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.inner.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.lastErr != nil && *b.lastErr != nil {
		if after := GetRetryAfter(*b.lastErr); after > 0 {
			return after
		}
	}
	return next
}

func (b *retryAfterBackOff) Reset() {
	b.inner.Reset()
}
