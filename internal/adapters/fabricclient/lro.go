package fabricclient

import (
	"context"
	"time"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// lroMaxPolls bounds a long-running operation poll loop (§4.M: "poll up
// to 60 times before giving up").
const lroMaxPolls = 60

// lroFallbackInterval is the poll interval used while the operation
// status responses carry no Retry-After header.
const lroFallbackInterval = 30 * time.Second

// lroSleepSlice is the granularity polling sleeps are chopped into so a
// cancellation request is observed within about a second (§4.M).
const lroSleepSlice = 1 * time.Second

// lroStatus is the polled representation of a Fabric long-running
// operation, independent of the transport that fetched it.
type lroStatus struct {
	status       usecases.OperationStatus
	resourceID   string
	errorMessage string
	retryAfter   time.Duration
	done         bool
}

// lroPoller checks the current status of one long-running operation.
// A transport implementation issues the GET against the operation's
// Location URL and reports back the decoded status.
type lroPoller func(ctx context.Context) (lroStatus, error)

// pollLRO polls poller until it reports completion, the token is
// cancelled, or lroMaxPolls is exceeded, reporting progress as it goes.
func pollLRO(ctx context.Context, tok *cancel.Token, progress usecases.ProgressReporter, poller lroPoller) (*usecases.OperationResult, error) {
	if progress != nil {
		progress.Start("waiting for Fabric to finish processing", 0)
	}

	interval := lroFallbackInterval
	for poll := 0; poll < lroMaxPolls; poll++ {
		if tok != nil {
			if err := tok.ThrowIfCancelled(); err != nil {
				return nil, err
			}
		}

		st, err := poller(ctx)
		if err != nil {
			return nil, err
		}
		if st.retryAfter > 0 {
			interval = st.retryAfter
		}
		if st.done {
			if progress != nil {
				progress.Done("operation finished")
			}
			return &usecases.OperationResult{
				Status:       st.status,
				ResourceID:   st.resourceID,
				ErrorMessage: st.errorMessage,
			}, nil
		}
		if progress != nil {
			progress.Message("still running")
		}

		if err := sleepCancellable(ctx, tok, interval); err != nil {
			return nil, err
		}
	}

	return &usecases.OperationResult{Status: usecases.OperationTimedOut}, nil
}

// sleepCancellable waits for d, checking tok and ctx every lroSleepSlice
// so a cancellation request lands within about a second instead of
// waiting out the full poll interval.
func sleepCancellable(ctx context.Context, tok *cancel.Token, d time.Duration) error {
	deadline := time.Now().Add(d)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		slice := lroSleepSlice
		if remaining < slice {
			slice = remaining
		}

		timer := time.NewTimer(slice)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-doneChan(tok):
			timer.Stop()
			return cancel.ErrCancelled
		}
	}
}

func doneChan(tok *cancel.Token) <-chan struct{} {
	if tok == nil {
		return nil
	}
	return tok.Done()
}
