package ai

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

const (
	// DefaultAnthropicModel is the model used when none is configured.
	DefaultAnthropicModel = "claude-3-5-sonnet-latest"

	// DefaultAnthropicEndpoint is the Anthropic API base URL.
	DefaultAnthropicEndpoint = "https://api.anthropic.com"

	anthropicMessagesPath = "/v1/messages"
	anthropicVersion      = "2023-06-01"
)

// AnthropicClient talks to the Anthropic Messages API.
type AnthropicClient struct {
	httpClient *http.Client
	config     ProviderConfig
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature *float32           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// NewAnthropicClient creates a client. The API key is required.
func NewAnthropicClient(config ProviderConfig) (*AnthropicClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, apperrors.NewMissingCredentialError(string(ProviderAnthropic), "CLAUDE_API_KEY")
	}
	config.Name = ProviderAnthropic
	if config.Model == "" {
		config.Model = DefaultAnthropicModel
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultAnthropicEndpoint
	}
	config.Endpoint = strings.TrimSuffix(config.Endpoint, "/")
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	return &AnthropicClient{
		httpClient: newHTTPClient(config.Timeout),
		config:     config,
	}, nil
}

// Name returns the provider name.
func (c *AnthropicClient) Name() string {
	return string(ProviderAnthropic)
}

// Complete sends one Messages request and returns the first text block.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	payload := anthropicRequest{
		Model:     c.config.Model,
		MaxTokens: c.config.MaxTokens,
		System:    req.SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.UserContent},
		},
	}
	if c.config.Temperature > 0 {
		t := c.config.Temperature
		payload.Temperature = &t
	}

	headers := map[string]string{
		"x-api-key":         c.config.APIKey,
		"anthropic-version": anthropicVersion,
	}

	apperrors.LogAPIRequest(c.Name(), c.config.Endpoint, c.config.Model, len(req.SystemPrompt)+len(req.UserContent))

	var resp anthropicResponse
	if err := postJSON(ctx, c.httpClient, c.Name(), c.config.Endpoint+anthropicMessagesPath, headers, payload, &resp); err != nil {
		return CompletionResult{}, err
	}

	if len(resp.Content) == 0 {
		return CompletionResult{}, apperrors.NewProviderResponseInvalidError(c.Name(), "missing content[0].text")
	}
	text := resp.Content[0].Text
	if strings.TrimSpace(text) == "" {
		detail := "empty content[0].text"
		if resp.StopReason != "" {
			detail += " (stop_reason: " + resp.StopReason + ")"
		}
		return CompletionResult{}, apperrors.NewProviderResponseInvalidError(c.Name(), detail)
	}

	return CompletionResult{Text: strings.TrimSpace(text)}, nil
}
