package fabricclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cfg := BreakerConfig{FailureThreshold: 2, RecoveryTimeout: time.Minute, SuccessThreshold: 1}
	b := newBreaker("test", cfg, nil)

	failing := func() (any, error) { return nil, &APIError{StatusCode: 500, ErrorCode: "Boom", Message: "boom"} }

	if _, err := b.Execute(failing); err == nil {
		t.Fatal("expected first failure to propagate")
	}
	if _, err := b.Execute(failing); err == nil {
		t.Fatal("expected second failure to propagate")
	}

	if _, err := b.Execute(func() (any, error) { return "ok", nil }); err == nil {
		t.Fatal("expected breaker to be open and reject the call")
	}
}

func TestNewBreaker_IgnoresCancellationAsFailure(t *testing.T) {
	cfg := BreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Minute, SuccessThreshold: 1}
	b := newBreaker("test", cfg, nil)

	cancelled := func() (any, error) { return nil, context.Canceled }
	if _, err := b.Execute(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled to propagate, got %v", err)
	}

	if _, err := b.Execute(func() (any, error) { return "ok", nil }); err != nil {
		t.Fatalf("cancellation must not have tripped the breaker: %v", err)
	}
}

func TestIsBreakerFailure(t *testing.T) {
	if isBreakerFailure(context.Canceled) {
		t.Fatal("context.Canceled should not count as a breaker failure")
	}
	if !isBreakerFailure(&APIError{StatusCode: 500}) {
		t.Fatal("an API error should count as a breaker failure")
	}
}
