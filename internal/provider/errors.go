package provider

import (
	"errors"
	"fmt"
	"time"
)

// TransportError represents a network, auth or empty-response failure
// from a completion backend. The orchestrator treats it as a
// subject-level failure, never as fatal to the whole run.
type TransportError struct {
	// Provider is the name of the provider that encountered the error.
	Provider string

	// Message is a human-readable error message.
	Message string

	// Err is the underlying error (if any).
	Err error

	// retriable marks failures the gateway may retry, such as 5xx
	// responses and timeouts. Empty responses and auth failures are not.
	retriable bool
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s provider error: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// RateLimitError represents a throttling signal from the backend. The
// gateway retries with backoff before surfacing it; once surfaced it
// propagates exactly like a TransportError.
type RateLimitError struct {
	// Provider is the name of the provider that was throttled.
	Provider string

	// RetryAfter is the backend-suggested wait, zero if not provided.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s provider rate limited, retry after %s", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("%s provider rate limited", e.Provider)
}

// IsRetriable reports whether an error is worth retrying inside the
// gateway: throttling, deadlines and transient transport failures.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.retriable
	}

	return false
}
