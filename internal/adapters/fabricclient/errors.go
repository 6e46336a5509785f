package fabricclient

import "fmt"

// APIError is a permanent (non-retryable) Fabric API failure (§4.M):
// 400/401/403/404/409 and anything else not classified as transient.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fabric api error %d (%s): %s", e.StatusCode, e.ErrorCode, e.Message)
}

// TransientError is a retryable Fabric API failure: 429 or 503, a
// transport failure (StatusCode 0), or GetDefinition's not-yet-available
// 404, carrying the server's Retry-After hint in seconds.
type TransientError struct {
	StatusCode int
	RetryAfter int
	Message    string
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("fabric api transient error %d: %s (retry after %ds)", e.StatusCode, e.Message, e.RetryAfter)
}

// CircuitOpenError is returned immediately when the breaker is Open,
// without attempting the call.
type CircuitOpenError struct {
	RemainingSeconds float64
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker open, retry in %.0fs", e.RemainingSeconds)
}

// itemDisplayNameAlreadyInUse is the Fabric error code CreateOrUpdate
// treats as a signal to switch from create to update (§4.M upsert).
const itemDisplayNameAlreadyInUse = "ItemDisplayNameAlreadyInUse"
