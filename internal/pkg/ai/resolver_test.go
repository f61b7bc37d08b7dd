package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chacha/chacha/internal/pkg/config"
	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantName ProviderName
		wantKey  string
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "claude key only",
			env:      map[string]string{"CLAUDE_API_KEY": "c-key"},
			wantName: ProviderAnthropic,
			wantKey:  "c-key",
		},
		{
			name:     "gemini key only",
			env:      map[string]string{"GEMINI_API_KEY": "g-key"},
			wantName: ProviderGemini,
			wantKey:  "g-key",
		},
		{
			name:     "google key only",
			env:      map[string]string{"GOOGLE_API_KEY": "goog-key"},
			wantName: ProviderGemini,
			wantKey:  "goog-key",
		},
		{
			name:     "claude preferred without explicit provider",
			env:      map[string]string{"CLAUDE_API_KEY": "c-key", "GEMINI_API_KEY": "g-key"},
			wantName: ProviderAnthropic,
			wantKey:  "c-key",
		},
		{
			name:     "explicit gemini wins over claude key",
			env:      map[string]string{"CHACHA_PROVIDER": "gemini", "CLAUDE_API_KEY": "c-key", "GEMINI_API_KEY": "g-key"},
			wantName: ProviderGemini,
			wantKey:  "g-key",
		},
		{
			name:     "gemini key preferred over google key",
			env:      map[string]string{"CHACHA_PROVIDER": "gemini", "GEMINI_API_KEY": "g-key", "GOOGLE_API_KEY": "goog-key"},
			wantName: ProviderGemini,
			wantKey:  "g-key",
		},
		{
			name:     "provider name is case insensitive",
			env:      map[string]string{"CHACHA_PROVIDER": "Anthropic", "CLAUDE_API_KEY": "c-key"},
			wantName: ProviderAnthropic,
			wantKey:  "c-key",
		},
		{
			name:     "explicit gemini without key",
			env:      map[string]string{"CHACHA_PROVIDER": "gemini", "CLAUDE_API_KEY": "c-key"},
			wantCode: apperrors.ErrMissingCredential,
		},
		{
			name:     "explicit anthropic without key",
			env:      map[string]string{"CHACHA_PROVIDER": "anthropic", "GEMINI_API_KEY": "g-key"},
			wantCode: apperrors.ErrMissingCredential,
		},
		{
			name:     "unknown provider",
			env:      map[string]string{"CHACHA_PROVIDER": "openai", "CLAUDE_API_KEY": "c-key"},
			wantCode: apperrors.ErrUnknownProvider,
		},
		{
			name:     "nothing configured",
			env:      map[string]string{},
			wantCode: apperrors.ErrNoProviderConfigured,
		},
		{
			name:     "blank keys count as unset",
			env:      map[string]string{"CLAUDE_API_KEY": "  ", "GEMINI_API_KEY": ""},
			wantCode: apperrors.ErrNoProviderConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(config.EnvFromMap(tt.env))
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, cfg.Name)
			assert.Equal(t, tt.wantKey, cfg.APIKey)
		})
	}
}

func TestResolve_MissingCredentialNamesVariables(t *testing.T) {
	_, err := Resolve(config.EnvFromMap(map[string]string{"CHACHA_PROVIDER": "gemini"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestProviderConfig_WithSettings(t *testing.T) {
	cfg := &config.Config{
		Anthropic: config.ModelConfig{Model: "claude-x", Endpoint: "https://a.example"},
		Gemini:    config.ModelConfig{Model: "gemini-x", Endpoint: "https://g.example"},
		Request:   config.RequestConfig{Timeout: 5 * time.Second, MaxTokens: 123, Temperature: 0.7},
	}

	anthropic := ProviderConfig{Name: ProviderAnthropic, APIKey: "k"}.WithSettings(cfg)
	assert.Equal(t, "claude-x", anthropic.Model)
	assert.Equal(t, "https://a.example", anthropic.Endpoint)
	assert.Equal(t, "k", anthropic.APIKey)
	assert.Equal(t, 5*time.Second, anthropic.Timeout)
	assert.Equal(t, 123, anthropic.MaxTokens)
	assert.Equal(t, float32(0.7), anthropic.Temperature)

	gemini := ProviderConfig{Name: ProviderGemini, APIKey: "k"}.WithSettings(cfg)
	assert.Equal(t, "gemini-x", gemini.Model)
	assert.Equal(t, "https://g.example", gemini.Endpoint)

	unchanged := ProviderConfig{Name: ProviderGemini, APIKey: "k"}.WithSettings(nil)
	assert.Equal(t, ProviderConfig{Name: ProviderGemini, APIKey: "k"}, unchanged)
}
