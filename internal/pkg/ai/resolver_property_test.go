package ai

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/chacha/chacha/internal/pkg/config"
	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

// genKey generates an API key that is either unset or a non-blank value.
func genKey() gopter.Gen {
	return gen.OneGenOf(
		gen.Const(""),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	)
}

func genEnv() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("", "anthropic", "gemini", "GEMINI", "openai"),
		genKey(),
		genKey(),
		genKey(),
	).Map(func(values []interface{}) map[string]string {
		env := map[string]string{}
		for i, key := range []string{config.EnvProvider, config.EnvClaudeAPIKey, config.EnvGeminiAPIKey, config.EnvGoogleAPIKey} {
			if v := values[i].(string); v != "" {
				env[key] = v
			}
		}
		return env
	})
}

func TestResolve_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("an explicit provider is never overridden", prop.ForAll(
		func(env map[string]string) bool {
			cfg, err := Resolve(config.EnvFromMap(env))
			switch env[config.EnvProvider] {
			case "anthropic":
				return (err == nil && cfg.Name == ProviderAnthropic) || apperrors.HasCode(err, apperrors.ErrMissingCredential)
			case "gemini", "GEMINI":
				return (err == nil && cfg.Name == ProviderGemini) || apperrors.HasCode(err, apperrors.ErrMissingCredential)
			case "openai":
				return apperrors.HasCode(err, apperrors.ErrUnknownProvider)
			}
			return true
		},
		genEnv(),
	))

	properties.Property("without a provider a claude key always wins", prop.ForAll(
		func(env map[string]string) bool {
			if env[config.EnvProvider] != "" {
				return true
			}
			cfg, err := Resolve(config.EnvFromMap(env))
			switch {
			case env[config.EnvClaudeAPIKey] != "":
				return err == nil && cfg.Name == ProviderAnthropic && cfg.APIKey == env[config.EnvClaudeAPIKey]
			case env[config.EnvGeminiAPIKey] != "" || env[config.EnvGoogleAPIKey] != "":
				return err == nil && cfg.Name == ProviderGemini
			default:
				return apperrors.HasCode(err, apperrors.ErrNoProviderConfigured)
			}
		},
		genEnv(),
	))

	properties.Property("a resolved provider always carries a key", prop.ForAll(
		func(env map[string]string) bool {
			cfg, err := Resolve(config.EnvFromMap(env))
			return err != nil || cfg.APIKey != ""
		},
		genEnv(),
	))

	properties.Property("the gemini key falls back to the google key", prop.ForAll(
		func(env map[string]string) bool {
			cfg, err := Resolve(config.EnvFromMap(env))
			if err != nil || cfg.Name != ProviderGemini {
				return true
			}
			if env[config.EnvGeminiAPIKey] != "" {
				return cfg.APIKey == env[config.EnvGeminiAPIKey]
			}
			return cfg.APIKey == env[config.EnvGoogleAPIKey]
		},
		genEnv(),
	))

	properties.TestingRun(t)
}
