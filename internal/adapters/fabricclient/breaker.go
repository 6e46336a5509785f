package fabricclient

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig mirrors the original CircuitBreakerSettings (§4.M):
// consecutive failures trip Closed->Open, a recovery timeout permits a
// HalfOpen probe, and consecutive successes in HalfOpen restore Closed.
type BreakerConfig struct {
	FailureThreshold uint32
	RecoveryTimeout  time.Duration
	SuccessThreshold uint32
}

// DefaultBreakerConfig matches the original defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, RecoveryTimeout: 60 * time.Second, SuccessThreshold: 2}
}

// newBreaker builds a gobreaker.CircuitBreaker wired to BreakerConfig.
// Every error except an unwrapped context.Canceled counts toward the
// failure count (see isBreakerFailure).
func newBreaker(name string, cfg BreakerConfig, onStateChange func(from, to gobreaker.State)) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.SuccessThreshold,
		Interval:    0,
		Timeout:     cfg.RecoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !isBreakerFailure(err)
		},
	}
	if onStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			onStateChange(from, to)
		}
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// isBreakerFailure reports whether err should count against the
// breaker's consecutive-failure tally. Context cancellation reflects
// the caller giving up, not the API failing, so it is excluded.
func isBreakerFailure(err error) bool {
	return err != context.Canceled
}
