package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/chacha/chacha/internal/pkg/config"
	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

// SetupResult is what the setup wizard collected.
type SetupResult struct {
	Provider string
	EnvVar   string
	APIKey   string
	Model    string
	// WriteProfile is true when the user agreed to update their shell profile.
	WriteProfile bool
}

// providerChoice describes one selectable provider.
type providerChoice struct {
	label  string
	envVar string
	model  string
	keyURL string
}

var providerChoices = map[string]providerChoice{
	"anthropic": {
		label:  "Anthropic (Claude)",
		envVar: config.EnvClaudeAPIKey,
		model:  config.DefaultAnthropicModel,
		keyURL: "https://console.anthropic.com/",
	},
	"gemini": {
		label:  "Google Gemini",
		envVar: config.EnvGeminiAPIKey,
		model:  config.DefaultGeminiModel,
		keyURL: "https://aistudio.google.com/",
	},
}

// ProviderEnvVar returns the variable holding the key for provider.
func ProviderEnvVar(provider string) (string, error) {
	choice, ok := providerChoices[strings.ToLower(provider)]
	if !ok {
		return "", apperrors.NewUnknownProviderError(provider)
	}
	return choice.envVar, nil
}

func validateAPIKey(s string) error {
	s = strings.TrimSpace(s)
	if len(s) < 8 {
		return fmt.Errorf("api key too short")
	}
	if strings.ContainsAny(s, " \t\"'") {
		return fmt.Errorf("api key must not contain spaces or quotes")
	}
	return nil
}

// RunInteractiveSetup walks the user through choosing a provider, entering
// its key and picking a model. The model is saved to the configuration; the
// key is only returned.
func RunInteractiveSetup(cfgMgr *config.ViperManager, provider string, askProfile bool, profileName string) (*SetupResult, error) {
	if provider == "" {
		err := huh.NewSelect[string]().
			Title("Select AI Provider").
			Options(
				huh.NewOption(providerChoices["anthropic"].label, "anthropic"),
				huh.NewOption(providerChoices["gemini"].label, "gemini"),
			).
			Value(&provider).
			Run()
		if err != nil {
			return nil, err
		}
	}

	provider = strings.ToLower(provider)
	choice, ok := providerChoices[provider]
	if !ok {
		return nil, apperrors.NewUnknownProviderError(provider)
	}

	result := &SetupResult{
		Provider: provider,
		EnvVar:   choice.envVar,
		Model:    choice.model,
	}

	fields := []huh.Field{
		huh.NewNote().
			Title("Setup " + choice.label).
			Description("Get your key at " + choice.keyURL),
		huh.NewInput().
			Title(choice.envVar).
			Description("Your API key").
			Value(&result.APIKey).
			EchoMode(huh.EchoModePassword).
			Validate(validateAPIKey),
		huh.NewInput().
			Title("Model Name").
			Description("Model to use").
			Value(&result.Model).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("model name cannot be empty")
				}
				return nil
			}),
	}
	if askProfile {
		result.WriteProfile = true
		fields = append(fields,
			huh.NewConfirm().
				Title(fmt.Sprintf("Do you want us to edit your %s?", profileName)).
				Value(&result.WriteProfile),
		)
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return nil, err
	}
	result.APIKey = strings.TrimSpace(result.APIKey)
	result.Model = strings.TrimSpace(result.Model)

	if cfgMgr != nil {
		if err := cfgMgr.Set(provider+".model", result.Model); err != nil {
			return nil, fmt.Errorf("failed to set model: %w", err)
		}
		// The user has just chosen to send content to this provider.
		if err := cfgMgr.AcknowledgeSecurityWarning(); err != nil {
			apperrors.Warn("failed to record security notice: %v", err)
		}
	}

	return result, nil
}
