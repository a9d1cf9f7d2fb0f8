package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alienxp03/botsleuth/internal/core"
)

// MockProvider generates simulated responses for offline runs and tests.
// It answers argument and critique prompts with canned analysis text and
// judge prompts with a well-formed verdict.
type MockProvider struct {
	mu      sync.Mutex
	calls   int
	delay   time.Duration
	verdict string
}

// NewMockProvider creates a mock provider that always answers "No"
// (human) to judge prompts.
func NewMockProvider() *MockProvider {
	return &MockProvider{verdict: "No"}
}

// Name returns the provider identifier.
func (p *MockProvider) Name() string {
	return "mock"
}

// SetVerdict changes the value the mock emits after the verdict marker.
func (p *MockProvider) SetVerdict(value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verdict = value
}

// Calls returns the number of completions performed.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Complete generates a simulated response.
func (p *MockProvider) Complete(ctx context.Context, req *Request) (string, error) {
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return "", &TransportError{Provider: p.Name(), Message: "cancelled", Err: ctx.Err()}
		case <-time.After(p.delay):
		}
	}

	p.mu.Lock()
	p.calls++
	verdict := p.verdict
	p.mu.Unlock()

	if strings.Contains(req.Prompt, core.VerdictMarker) {
		return fmt.Sprintf("- **Reason:** Simulated weighing of both analyses.\n- %s %s", core.VerdictMarker, verdict), nil
	}

	return fmt.Sprintf("Simulated analysis for prompt: %s...", truncate(req.Prompt, 60)), nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
