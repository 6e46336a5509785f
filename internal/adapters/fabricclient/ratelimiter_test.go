package fabricclient

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_AcquireWithinBurstDoesNotWait(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := rl.Acquire(ctx); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}

	stats := rl.Stats()
	if stats.TotalRequests != 5 {
		t.Fatalf("expected 5 recorded requests, got %d", stats.TotalRequests)
	}
}

func TestRateLimiter_AcquireRespectsCancellation(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, 1)
	ctx := context.Background()

	if err := rl.Acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Acquire(cancelCtx); err == nil {
		t.Fatal("expected cancellation error on exhausted bucket")
	}
}

func TestDefaultRateLimiter_AllowsTenPerMinuteBurst(t *testing.T) {
	rl := DefaultRateLimiter()
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if err := rl.Acquire(ctx); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}
}
