package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

const (
	// DefaultGeminiModel is the model used when none is configured.
	DefaultGeminiModel = "gemini-2.5-flash"

	// DefaultGeminiEndpoint is the Generative Language API base URL.
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com"
)

// GeminiClient talks to the Gemini generateContent API.
type GeminiClient struct {
	httpClient *http.Client
	config     ProviderConfig
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewGeminiClient creates a client. The API key is required.
func NewGeminiClient(config ProviderConfig) (*GeminiClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, apperrors.NewMissingCredentialError(string(ProviderGemini), "GEMINI_API_KEY", "GOOGLE_API_KEY")
	}
	config.Name = ProviderGemini
	if config.Model == "" {
		config.Model = DefaultGeminiModel
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultGeminiEndpoint
	}
	config.Endpoint = strings.TrimSuffix(config.Endpoint, "/")
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}
	if config.Temperature <= 0 {
		config.Temperature = DefaultTemperature
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	return &GeminiClient{
		httpClient: newHTTPClient(config.Timeout),
		config:     config,
	}, nil
}

// Name returns the provider name.
func (c *GeminiClient) Name() string {
	return string(ProviderGemini)
}

func (c *GeminiClient) url() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.config.Endpoint, url.PathEscape(c.config.Model))
}

// Complete sends one generateContent request and joins the text parts of
// the first candidate.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.UserContent}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxTokens,
		},
	}
	if req.SystemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}

	// The key travels in a header so it never appears in transport errors.
	headers := map[string]string{
		"x-goog-api-key": c.config.APIKey,
	}

	apperrors.LogAPIRequest(c.Name(), c.config.Endpoint, c.config.Model, len(req.SystemPrompt)+len(req.UserContent))

	var resp geminiResponse
	if err := postJSON(ctx, c.httpClient, c.Name(), c.url(), headers, payload, &resp); err != nil {
		return CompletionResult{}, err
	}

	if resp.Error != nil && resp.Error.Message != "" {
		return CompletionResult{}, apperrors.NewProviderResponseInvalidError(c.Name(), resp.Error.Message)
	}
	if len(resp.Candidates) == 0 {
		detail := "no candidates returned"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			detail = "prompt blocked: " + resp.PromptFeedback.BlockReason
		}
		return CompletionResult{}, apperrors.NewProviderResponseInvalidError(c.Name(), detail)
	}

	candidate := resp.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		detail := "missing candidates[0].content.parts[].text"
		if candidate.FinishReason != "" {
			detail += " (finishReason: " + candidate.FinishReason + ")"
		}
		return CompletionResult{}, apperrors.NewProviderResponseInvalidError(c.Name(), detail)
	}

	return CompletionResult{Text: text}, nil
}
