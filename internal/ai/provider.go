// Package ai provides the model backend contract and a failover client over
// the two interchangeable HTTP backends (Gemini and an OpenAI-compatible
// endpoint) used for field extraction.
package ai

import (
	"context"
	"errors"
)

// Sentinel errors for backend operations.
var (
	// ErrNotConfigured indicates no backend has credentials.
	ErrNotConfigured = errors.New("no ai backend configured")
	// ErrEmptyResponse indicates the backend returned no usable content.
	ErrEmptyResponse = errors.New("ai backend returned empty response")
)

// TokenUsage reports token accounting as returned by a backend, when available.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the raw outcome of a single backend call. Content is free-form
// text expected, but not guaranteed, to contain a JSON object.
type Response struct {
	Content  string     `json:"content"`
	Provider string     `json:"provider"`
	Model    string     `json:"model"`
	Usage    TokenUsage `json:"usage"`
}

// Provider is a single model backend reached over HTTP.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string) (*Response, error)
}
