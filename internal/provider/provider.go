// Package provider wraps chat-completion backends behind a reduced
// request/response contract: send a role instruction, a user prompt and
// a sampling temperature, get raw text back.
//
// The rest of the system never depends on backend-specific request or
// response shapes beyond this contract.
package provider

import (
	"context"
	"time"
)

// Provider defines the interface for completion backends.
type Provider interface {
	// Name returns the provider's unique identifier (e.g. "openai").
	Name() string

	// Complete performs one request for natural-language text. It
	// never returns empty text with a nil error: an empty or missing
	// choice is reported as a TransportError.
	Complete(ctx context.Context, req *Request) (string, error)
}

// Request represents one completion request.
type Request struct {
	// System is the role instruction for this call.
	System string

	// Prompt is the rendered user instruction.
	Prompt string

	// Temperature is the sampling temperature in [0,1].
	Temperature float64

	// Model overrides the provider's configured model when non-empty.
	Model string
}

// Config holds configuration for creating a provider.
type Config struct {
	// Name is the unique identifier for this provider.
	Name string

	// BaseURL is the API endpoint root (e.g. "https://api.openai.com").
	BaseURL string

	// APIKey authenticates requests. Sent as a bearer token.
	APIKey string

	// Model is the default model for requests that don't override it.
	Model string

	// Timeout is the execution deadline applied to each call.
	Timeout time.Duration

	// MaxRetries is the number of retries after a throttled or
	// transient failure (total attempts = MaxRetries + 1).
	MaxRetries int
}
