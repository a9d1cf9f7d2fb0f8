package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default execution deadline per call.
	DefaultTimeout = 2 * time.Minute

	// maxResponseSize caps the response body read (10MB).
	maxResponseSize = 10 * 1024 * 1024
)

// OpenAIProvider talks to an OpenAI-compatible chat completions API.
type OpenAIProvider struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	timeout    time.Duration
	backoff    time.Duration
	httpClient *http.Client
}

// NewOpenAI creates a provider for an OpenAI-compatible endpoint.
func NewOpenAI(cfg Config) *OpenAIProvider {
	name := cfg.Name
	if name == "" {
		name = "openai"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 2 // Default: 2 retries (3 total attempts)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	return &OpenAIProvider{
		name:       name,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxRetries: maxRetries,
		timeout:    timeout,
		backoff:    time.Second,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// chatRequest is the wire shape for a chat completion request.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

// chatMessage represents a chat message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the wire shape for a chat completion response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

// errorResponse is the wire shape for an API error.
type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete performs one chat completion round trip with retry for
// throttled and transient failures.
func (p *OpenAIProvider) Complete(ctx context.Context, req *Request) (string, error) {
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * p.backoff
			slog.Info("Retrying completion after backoff",
				"provider", p.name,
				"attempt", attempt+1,
				"max_attempts", p.maxRetries+1,
				"backoff", backoff,
			)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", &TransportError{Provider: p.name, Message: "cancelled during backoff", Err: ctx.Err()}
			}
		}

		text, err := p.completeOnce(ctx, req)
		if err == nil {
			if attempt > 0 {
				slog.Info("Completion succeeded after retry", "provider", p.name, "attempt", attempt+1)
			}
			return text, nil
		}

		if !IsRetriable(err) || attempt == p.maxRetries {
			return "", err
		}

		slog.Warn("Completion failed, will retry",
			"provider", p.name,
			"attempt", attempt+1,
			"error", err,
		)
	}

	return "", &TransportError{Provider: p.name, Message: "unexpected retry loop exit"}
}

// completeOnce performs a single request/response round trip.
func (p *OpenAIProvider) completeOnce(ctx context.Context, req *Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = p.model
	}

	temperature := req.Temperature
	body, err := json.Marshal(&chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: &temperature,
	})
	if err != nil {
		return "", &TransportError{Provider: p.name, Message: "failed to marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Provider: p.name, Message: "failed to create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	slog.Debug("Sending completion request",
		"provider", p.name,
		"model", model,
		"prompt_len", len(req.Prompt),
	)

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", &TransportError{Provider: p.name, Message: "request timed out", Err: ctx.Err(), retriable: true}
		}
		return "", &TransportError{Provider: p.name, Message: "request failed", Err: err, retriable: true}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", &TransportError{Provider: p.name, Message: "failed to read response", Err: err, retriable: true}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &RateLimitError{Provider: p.name, RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("API error [%d]", resp.StatusCode)
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			msg = fmt.Sprintf("API error [%d]: %s (type: %s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}
		return "", &TransportError{
			Provider:  p.name,
			Message:   msg,
			retriable: resp.StatusCode >= 500,
		}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &TransportError{Provider: p.name, Message: "failed to unmarshal response", Err: err}
	}

	if len(result.Choices) == 0 {
		return "", &TransportError{Provider: p.name, Message: "response contained no choices"}
	}

	text := result.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &TransportError{Provider: p.name, Message: "response contained empty text"}
	}

	slog.Debug("Completion successful",
		"provider", p.name,
		"model", model,
		"output_len", len(text),
		"duration", time.Since(start),
	)

	return text, nil
}

// parseRetryAfter parses a Retry-After header value in seconds.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
