// Package llm provides the streaming LLM provider interface and registry used
// to generate slide markup.
package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by Validate when a provider lacks credentials.
var ErrNotConfigured = errors.New("provider not configured")

// DeltaFunc receives each piece of text as the model produces it.
type DeltaFunc func(delta string)

// Provider is the interface that all LLM providers must implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "anthropic").
	Name() string

	// Stream sends the request and calls onDelta for every text fragment in
	// arrival order. It returns once the response is complete, the context is
	// cancelled or the provider fails.
	Stream(ctx context.Context, req *Request, onDelta DeltaFunc) (*Result, error)

	// Validate checks if the provider is properly configured.
	Validate() error
}

// Request is a single generation request.
type Request struct {
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model,omitempty"`       // overrides the provider default
	MaxTokens   int     `json:"max_tokens,omitempty"`  // maximum tokens for response
	Temperature float64 `json:"temperature,omitempty"` // creativity level (0.0 - 1.0)
}

// Result contains the outcome of a completed stream.
type Result struct {
	Text  string     `json:"text"`
	Usage TokenUsage `json:"usage"`
	Model string     `json:"model"`
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// DefaultRequest returns a request with the default generation options.
func DefaultRequest(prompt string) *Request {
	return &Request{
		Prompt:      prompt,
		MaxTokens:   8192,
		Temperature: 0.4,
	}
}

func (r *Request) model(fallback string) string {
	if r.Model != "" {
		return r.Model
	}
	return fallback
}

func (r *Request) maxTokens(fallback int) int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	if fallback > 0 {
		return fallback
	}
	return 8192
}
