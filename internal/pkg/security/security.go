// Package security provides key masking, key format checks and the
// data-sharing notice for chacha.
package security

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// APIKeyFormat defines the expected format patterns for different providers.
var APIKeyFormat = map[string]*regexp.Regexp{
	"anthropic": regexp.MustCompile(`^sk-ant-[a-zA-Z0-9_\-]{20,}$`),
	"gemini":    regexp.MustCompile(`^AIza[0-9A-Za-z_\-]{30,}$`),
}

// MaskAPIKey masks an API key, showing only the last 4 characters.
// This should be used when logging or displaying API keys.
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// ValidateAPIKeyFormat checks a key against the provider's usual format.
// A mismatch is worth a warning only: providers change key formats.
func ValidateAPIKeyFormat(provider, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("API key is required for %s provider", provider)
	}
	if len(apiKey) < 20 {
		return fmt.Errorf("API key appears to be invalid (too short)")
	}

	pattern, exists := APIKeyFormat[provider]
	if exists && !pattern.MatchString(apiKey) {
		prefix := "sk-ant-"
		if provider == "gemini" {
			prefix = "AIza"
		}
		return fmt.Errorf("API key format appears invalid for %s provider (expected format: %s...)", provider, prefix)
	}
	return nil
}

// secretPatterns names common credentials that should not leave the machine.
var secretPatterns = []struct {
	kind  string
	regex *regexp.Regexp
}{
	{"Anthropic or OpenAI API key", regexp.MustCompile(`sk-(ant-)?[a-zA-Z0-9_\-]{20,}`)},
	{"Google API key", regexp.MustCompile(`AIza[0-9A-Za-z_\-]{30,}`)},
	{"AWS access key", regexp.MustCompile(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`)},
	{"GitHub token", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
	{"private key", regexp.MustCompile(`-----BEGIN ([A-Z]+ )?PRIVATE KEY-----`)},
	{"password assignment", regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[:=]\s*["'][^"'\s]{6,}["']`)},
}

// DetectSecrets returns the kinds of credentials that appear in text,
// sorted and without duplicates.
func DetectSecrets(text string) []string {
	var kinds []string
	for _, p := range secretPatterns {
		if p.regex.MatchString(text) {
			kinds = append(kinds, p.kind)
		}
	}
	sort.Strings(kinds)
	return kinds
}

// SanitizeForLogging sanitizes a string for safe logging by masking potential secrets.
func SanitizeForLogging(s string) string {
	patterns := []struct {
		regex       *regexp.Regexp
		replacement string
	}{
		{regexp.MustCompile(`sk-(ant-)?[a-zA-Z0-9_\-]{20,}`), "sk-****"},
		{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{30,}`), "AIza****"},
		{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`), "Bearer ****"},
		{regexp.MustCompile(`(?i)(x-api-key|x-goog-api-key|api[_-]?key|apikey|secret[_-]?key)\s*[:=]\s*["']?[a-zA-Z0-9._-]+["']?`), "$1=****"},
		{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["']?[^\s"']+["']?`), "$1=****"},
	}

	result := s
	for _, p := range patterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}
	return result
}

// FirstUseWarning is the warning message displayed on first use.
const FirstUseWarning = `
IMPORTANT: chacha sends content to a remote AI provider

explain and fix upload the file you name. explain-commit uploads commit
metadata and patches. commit run uploads the staged diff.

The content goes to Anthropic or Google, depending on CHACHA_PROVIDER and
the keys you have set. Please ensure you:

1. Do not send files or commits that contain secrets
2. Check your organisation allows this use of its code
3. Keep API keys in your shell profile or .env, never in the repository
`

// FirstUseAcknowledgment is the message shown after user acknowledges the warning.
const FirstUseAcknowledgment = "This notice will not be shown again."
