// Package llm provides OpenAI-compatible generative text client functionality
// for the roadmap synthesis pipeline.
package llm

import (
	"context"
)

// GenerateOptions controls a single generation call.
type GenerateOptions struct {
	// Temperature for sampling. Zero means the provider default.
	Temperature float64

	// SearchAugmentation marks calls that want the model to look up
	// learning resources on the web. The chat completions API has no
	// request-level switch for this (its tools parameter only accepts
	// function tools), so the flag does not alter the request; it
	// requires a model with built-in browsing. Search-augmented
	// responses tend to carry citation markers and inline links that
	// must be stripped before parsing (see recovery.go).
	SearchAugmentation bool
}

// LLMClient defines the interface for generative text operations.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	// GenerateResponse generates a chat completion for the given prompt
	// and system message. The response may be prose, a fenced code block,
	// or raw structured text; callers must not trust it as typed data.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, opts GenerateOptions) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Ensure Client implements LLMClient at compile time.
var _ LLMClient = (*Client)(nil)
