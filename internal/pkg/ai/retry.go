package ai

import (
	"context"
	"time"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

// retryingClient repeats Complete on transient failures. It sits on top of
// a Client; clients themselves never retry.
type retryingClient struct {
	inner  Client
	config apperrors.RetryConfig
}

// WithRetry wraps client so that ProviderUnavailable and 429/5xx rejections
// are retried up to retries extra times. With retries <= 0 the client is
// returned as is.
func WithRetry(client Client, retries int) Client {
	if retries <= 0 || client == nil {
		return client
	}
	cfg := apperrors.DefaultRetryConfig()
	cfg.MaxAttempts = retries + 1
	return &retryingClient{inner: client, config: cfg}
}

func (c *retryingClient) Name() string {
	return c.inner.Name()
}

func (c *retryingClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	var result CompletionResult
	err := apperrors.RetryWithNotify(ctx, c.config, func(ctx context.Context) error {
		var err error
		result, err = c.inner.Complete(ctx, req)
		return err
	}, func(attempt int, err error, delay time.Duration) {
		apperrors.Warn("%s call failed, retrying in %v (attempt %d)", c.inner.Name(), delay.Round(time.Millisecond), attempt)
	})
	if err != nil {
		return CompletionResult{}, err
	}
	return result, nil
}
