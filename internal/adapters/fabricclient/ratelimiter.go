package fabricclient

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterStats exposes the running totals the original rate limiter
// tracked for diagnostics (§4.M).
type RateLimiterStats struct {
	TotalRequests int
	TotalWaited   int
	TotalWaitTime time.Duration
}

// RateLimiter is a token-bucket limiter at `rate` requests per `per`
// seconds, burst defaulting to `rate` unless overridden (§4.M).
type RateLimiter struct {
	limiter *rate.Limiter

	mu    sync.Mutex
	stats RateLimiterStats
}

// NewRateLimiter builds a limiter allowing requestsPerPeriod events per
// period, with burst capacity (0 defaults burst to requestsPerPeriod).
func NewRateLimiter(requestsPerPeriod int, period time.Duration, burst int) *RateLimiter {
	if burst <= 0 {
		burst = requestsPerPeriod
	}
	r := rate.Limit(float64(requestsPerPeriod) / period.Seconds())
	return &RateLimiter{limiter: rate.NewLimiter(r, burst)}
}

// DefaultRateLimiter applies the spec default of 10 requests/minute.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(10, time.Minute, 10)
}

// Acquire blocks until a token is available or ctx is cancelled,
// recording wait statistics.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	start := time.Now()
	reservation := r.limiter.Reserve()
	if !reservation.OK() {
		return context.DeadlineExceeded
	}
	delay := reservation.Delay()

	r.mu.Lock()
	r.stats.TotalRequests++
	if delay > 0 {
		r.stats.TotalWaited++
	}
	r.mu.Unlock()

	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		r.mu.Lock()
		r.stats.TotalWaitTime += time.Since(start)
		r.mu.Unlock()
		return nil
	case <-ctx.Done():
		reservation.Cancel()
		return ctx.Err()
	}
}

// Stats returns a snapshot of the running totals.
func (r *RateLimiter) Stats() RateLimiterStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
