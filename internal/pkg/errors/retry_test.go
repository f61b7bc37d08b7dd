package errors

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:  attempts,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
		Jitter:       false,
	}
}

func TestRetry_Success(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(3), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Retry() error = %v, want nil", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(3), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return NewProviderUnavailableError("gemini", errors.New("connection refused"))
		}
		return nil
	})

	if err != nil {
		t.Errorf("Retry() error = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_NonRetryableError(t *testing.T) {
	attempts := 0
	expectedErr := NewProviderRejectedError("anthropic", 401, "invalid x-api-key")
	err := Retry(context.Background(), fastRetryConfig(3), func(ctx context.Context) error {
		attempts++
		return expectedErr
	})

	if err != expectedErr {
		t.Errorf("Retry() error = %v, want %v", err, expectedErr)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (should not retry non-retryable errors)", attempts)
	}
}

func TestRetry_MaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(3), func(ctx context.Context) error {
		attempts++
		return NewProviderRejectedError("gemini", 503, "overloaded")
	})

	if !HasCode(err, ErrProviderRejected) {
		t.Errorf("Retry() error = %v, want ProviderRejected", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_SingleAttempt(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(0), func(ctx context.Context) error {
		attempts++
		return NewProviderUnavailableError("gemini", errors.New("timeout"))
	})

	if err == nil {
		t.Error("Retry() should return the error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	config := RetryConfig{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		Jitter:       false,
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := Retry(ctx, config, func(ctx context.Context) error {
		return NewProviderUnavailableError("anthropic", errors.New("connection reset"))
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}

func TestRetry_RespectRetryAfter(t *testing.T) {
	attempts := 0
	start := time.Now()

	err := Retry(context.Background(), fastRetryConfig(3), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			rejected := NewProviderRejectedError("anthropic", 429, "rate limited")
			rejected.RetryAfter = 50 * time.Millisecond
			return rejected
		}
		return nil
	})

	elapsed := time.Since(start)

	if err != nil {
		t.Errorf("Retry() error = %v, want nil", err)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("elapsed = %v, should be at least 50ms (retry-after)", elapsed)
	}
}

func TestRetryWithNotify(t *testing.T) {
	attempts := 0
	notifications := 0

	err := RetryWithNotify(context.Background(), fastRetryConfig(3), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return NewProviderUnavailableError("gemini", errors.New("connection failed"))
		}
		return nil
	}, func(attempt int, err error, delay time.Duration) {
		notifications++
	})

	if err != nil {
		t.Errorf("RetryWithNotify() error = %v, want nil", err)
	}
	if notifications != 2 {
		t.Errorf("notifications = %d, want 2", notifications)
	}
}
