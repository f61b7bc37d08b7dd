package ai

import (
	"strings"

	"github.com/chacha/chacha/internal/pkg/config"
	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

// Resolve picks a provider and its credential from the environment.
//
// An explicit CHACHA_PROVIDER always wins. Without it, a Claude key is
// preferred over a Gemini or Google key.
func Resolve(env config.Env) (ProviderConfig, error) {
	name := strings.ToLower(env.Get(config.EnvProvider))

	switch name {
	case string(ProviderAnthropic):
		key := env.Get(config.EnvClaudeAPIKey)
		if key == "" {
			return ProviderConfig{}, apperrors.NewMissingCredentialError(name, config.EnvClaudeAPIKey)
		}
		return ProviderConfig{Name: ProviderAnthropic, APIKey: key}, nil

	case string(ProviderGemini):
		key := geminiKey(env)
		if key == "" {
			return ProviderConfig{}, apperrors.NewMissingCredentialError(name, config.EnvGeminiAPIKey, config.EnvGoogleAPIKey)
		}
		return ProviderConfig{Name: ProviderGemini, APIKey: key}, nil

	case "":
		if key := env.Get(config.EnvClaudeAPIKey); key != "" {
			return ProviderConfig{Name: ProviderAnthropic, APIKey: key}, nil
		}
		if key := geminiKey(env); key != "" {
			return ProviderConfig{Name: ProviderGemini, APIKey: key}, nil
		}
		return ProviderConfig{}, apperrors.NewNoProviderConfiguredError()

	default:
		return ProviderConfig{}, apperrors.NewUnknownProviderError(env.Get(config.EnvProvider))
	}
}

// geminiKey prefers GEMINI_API_KEY and falls back to GOOGLE_API_KEY.
func geminiKey(env config.Env) string {
	if key := env.Get(config.EnvGeminiAPIKey); key != "" {
		return key
	}
	return env.Get(config.EnvGoogleAPIKey)
}

// WithSettings fills model, endpoint and request limits from cfg for the
// resolved provider. Credentials are left untouched.
func (p ProviderConfig) WithSettings(cfg *config.Config) ProviderConfig {
	if cfg == nil {
		return p
	}
	switch p.Name {
	case ProviderAnthropic:
		p.Model = cfg.Anthropic.Model
		p.Endpoint = cfg.Anthropic.Endpoint
	case ProviderGemini:
		p.Model = cfg.Gemini.Model
		p.Endpoint = cfg.Gemini.Endpoint
	}
	p.Timeout = cfg.Request.Timeout
	p.MaxTokens = cfg.Request.MaxTokens
	p.Temperature = cfg.Request.Temperature
	return p
}
