package fabricclient

import (
	"context"
	"math"
	"time"
)

// retryPolicy bounds the number of attempts for one logical operation.
// GetDefinition downloads large bundles and gets a longer allowance than
// the simpler metadata calls (§4.M retry table).
type retryPolicy struct {
	maxAttempts int
}

const (
	defaultMaxAttempts        = 5
	getDefinitionMaxAttempts  = 15
	maxBackoff                = 60 * time.Second
)

func standardRetryPolicy() retryPolicy      { return retryPolicy{maxAttempts: defaultMaxAttempts} }
func getDefinitionRetryPolicy() retryPolicy { return retryPolicy{maxAttempts: getDefinitionMaxAttempts} }

// withRetry runs op up to policy.maxAttempts times, retrying only on
// TransientError, honoring its RetryAfter hint when present and falling
// back to exponential backoff capped at maxBackoff (§4.M).
func withRetry[T any](ctx context.Context, policy retryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < policy.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		transient, ok := err.(*TransientError)
		if !ok {
			return zero, err
		}
		if attempt == policy.maxAttempts-1 {
			break
		}

		wait := backoffFor(transient, attempt)
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}

// backoffFor prefers the server's Retry-After hint; otherwise it
// computes min(2^attempt, maxBackoff) seconds.
func backoffFor(err *TransientError, attempt int) time.Duration {
	if err.RetryAfter > 0 {
		return time.Duration(err.RetryAfter) * time.Second
	}
	seconds := math.Pow(2, float64(attempt))
	backoff := time.Duration(seconds) * time.Second
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	return backoff
}
