package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that select and authenticate a provider.
const (
	EnvProvider        = "CHACHA_PROVIDER"
	EnvClaudeAPIKey    = "CLAUDE_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvGoogleAPIKey    = "GOOGLE_API_KEY"
	EnvMaxPromptTokens = "CHACHA_MAX_PROMPT_TOKENS"
	EnvLogLevel        = "CHACHA_LOG_LEVEL"
)

// Env is a read-only snapshot of the provider-related environment, taken
// once at startup and passed to whatever needs it.
type Env struct {
	vars map[string]string
}

var envKeys = []string{
	EnvProvider,
	EnvClaudeAPIKey,
	EnvGeminiAPIKey,
	EnvGoogleAPIKey,
	EnvMaxPromptTokens,
	EnvLogLevel,
}

// EnvFromOS captures the current process environment.
func EnvFromOS() Env {
	vars := make(map[string]string, len(envKeys))
	for _, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			vars[key] = v
		}
	}
	return Env{vars: vars}
}

// EnvFromMap builds a snapshot from an explicit mapping. The map is copied.
func EnvFromMap(m map[string]string) Env {
	vars := make(map[string]string, len(m))
	for k, v := range m {
		vars[k] = v
	}
	return Env{vars: vars}
}

// Get returns the trimmed value of key, or "" when unset.
func (e Env) Get(key string) string {
	return strings.TrimSpace(e.vars[key])
}

// Has reports whether key is set to a non-blank value.
func (e Env) Has(key string) bool {
	return e.Get(key) != ""
}

// MaxPromptTokens returns CHACHA_MAX_PROMPT_TOKENS, or 0 when unset or invalid.
func (e Env) MaxPromptTokens() int {
	n, err := strconv.Atoi(e.Get(EnvMaxPromptTokens))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Variables that are already set win. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
