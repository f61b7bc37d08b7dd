// Package ai provides the provider abstraction used to talk to remote
// text-generation services.
package ai

import (
	"context"
	"time"
)

// ProviderName identifies a supported backend.
type ProviderName string

// Supported providers. The set is closed.
const (
	ProviderAnthropic ProviderName = "anthropic"
	ProviderGemini    ProviderName = "gemini"
)

// Request defaults.
const (
	DefaultTimeout     = 60 * time.Second
	DefaultMaxTokens   = 2000
	DefaultTemperature = float32(0.2)
)

// ProviderConfig holds everything needed to construct a Client.
type ProviderConfig struct {
	Name        ProviderName
	APIKey      string
	Model       string
	Endpoint    string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}

// CompletionRequest is a single prompt sent to a provider.
type CompletionRequest struct {
	SystemPrompt string
	UserContent  string
}

// CompletionResult is the text a provider produced.
type CompletionResult struct {
	Text string
}

// Client sends one request per Complete call. Implementations do not retry.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
	Name() string
}
