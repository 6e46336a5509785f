package fabricclient

import (
	"context"
	"testing"
	"time"
)

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	result, err := withRetry(context.Background(), retryPolicy{maxAttempts: 5}, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", &TransientError{StatusCode: 503, RetryAfter: 0, Message: "unavailable"}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected ok, got %q", result)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	_, err := withRetry(context.Background(), retryPolicy{maxAttempts: 5}, func(ctx context.Context) (string, error) {
		attempts++
		return "", &APIError{StatusCode: 404, ErrorCode: "NotFound", Message: "missing"}
	})
	if err == nil {
		t.Fatal("expected permanent error to propagate")
	}
	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt for a non-retryable error, got %d", attempts)
	}
}

func TestWithRetry_ExhaustsMaxAttempts(t *testing.T) {
	attempts := 0
	_, err := withRetry(context.Background(), retryPolicy{maxAttempts: 3}, func(ctx context.Context) (string, error) {
		attempts++
		return "", &TransientError{StatusCode: 429, RetryAfter: 0, Message: "rate limited"}
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestBackoffFor_PrefersRetryAfterHint(t *testing.T) {
	d := backoffFor(&TransientError{RetryAfter: 7}, 0)
	if d != 7*time.Second {
		t.Fatalf("expected 7s, got %v", d)
	}
}

func TestBackoffFor_CapsExponentialGrowth(t *testing.T) {
	d := backoffFor(&TransientError{RetryAfter: 0}, 10)
	if d != maxBackoff {
		t.Fatalf("expected backoff capped at %v, got %v", maxBackoff, d)
	}
}
