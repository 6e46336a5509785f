package fabricclient

import (
	"context"
	"testing"
	"time"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

type recordingProgress struct {
	messages []string
}

func (p *recordingProgress) Start(phase string, total int) { p.messages = append(p.messages, "start:"+phase) }
func (p *recordingProgress) Advance(n int)                 {}
func (p *recordingProgress) Done(phase string)             { p.messages = append(p.messages, "done:"+phase) }
func (p *recordingProgress) Message(msg string)            { p.messages = append(p.messages, msg) }

func TestPollLRO_ReturnsSucceededOnFirstPoll(t *testing.T) {
	poller := func(ctx context.Context) (lroStatus, error) {
		return lroStatus{status: usecases.OperationSucceeded, resourceID: "abc", done: true}, nil
	}

	progress := &recordingProgress{}
	result, err := pollLRO(context.Background(), nil, progress, poller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != usecases.OperationSucceeded || result.ResourceID != "abc" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPollLRO_RespectsCancellationToken(t *testing.T) {
	src := cancel.NewSource()
	src.Cancel()

	poller := func(ctx context.Context) (lroStatus, error) {
		t.Fatal("poller must not be invoked once the token is cancelled")
		return lroStatus{}, nil
	}

	_, err := pollLRO(context.Background(), src.Token(), nil, poller)
	if err != cancel.ErrCancelled {
		t.Fatalf("expected cancel.ErrCancelled, got %v", err)
	}
}

func TestPollLRO_PollsUntilDone(t *testing.T) {
	calls := 0
	poller := func(ctx context.Context) (lroStatus, error) {
		calls++
		if calls < 2 {
			return lroStatus{status: usecases.OperationRunning, retryAfter: 10 * time.Millisecond}, nil
		}
		return lroStatus{status: usecases.OperationSucceeded, resourceID: "xyz", done: true}, nil
	}

	result, err := pollLRO(context.Background(), nil, nil, poller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 poll calls, got %d", calls)
	}
	if result.ResourceID != "xyz" {
		t.Fatalf("unexpected resource id: %s", result.ResourceID)
	}
}

func TestPollLRO_PropagatesOperationFailure(t *testing.T) {
	poller := func(ctx context.Context) (lroStatus, error) {
		return lroStatus{status: usecases.OperationFailed, errorMessage: "broke", done: true}, nil
	}

	result, err := pollLRO(context.Background(), nil, nil, poller)
	if err != nil {
		t.Fatalf("pollLRO itself should not error on a Failed status: %v", err)
	}
	if result.Status != usecases.OperationFailed || result.ErrorMessage != "broke" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
