// Package config provides configuration management for chacha.
package config

import "time"

// Config represents the complete chacha configuration.
type Config struct {
	Anthropic ModelConfig    `mapstructure:"anthropic"`
	Gemini    ModelConfig    `mapstructure:"gemini"`
	Request   RequestConfig  `mapstructure:"request"`
	Extract   ExtractConfig  `mapstructure:"extract"`
	Prompt    PromptConfig   `mapstructure:"prompt"`
	Git       GitConfig      `mapstructure:"git"`
	UI        UIConfig       `mapstructure:"ui"`
	History   HistoryConfig  `mapstructure:"history"`
	Security  SecurityConfig `mapstructure:"security"`
}

// ModelConfig holds per-provider model settings. API keys never live here;
// they are read from the environment only.
type ModelConfig struct {
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

// RequestConfig contains settings shared by every provider call.
type RequestConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
	// Retries is the number of extra attempts for transient failures. 0 disables retry.
	Retries int `mapstructure:"retries"`
}

// ExtractConfig limits what is read from disk.
type ExtractConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// PromptConfig bounds the content sent to a provider.
type PromptConfig struct {
	// MaxTokens caps user content at roughly four bytes per token. 0 means no cap.
	MaxTokens     int `mapstructure:"max_tokens"`
	MaxPatchBytes int `mapstructure:"max_patch_bytes"`
}

// GitConfig contains Git-related settings.
type GitConfig struct {
	DiffSizeThreshold int      `mapstructure:"diff_size_threshold"`
	ExcludePatterns   []string `mapstructure:"exclude_patterns"`
	Remote            string   `mapstructure:"remote"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
}

// HistoryConfig contains history-related settings.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxEntries int    `mapstructure:"max_entries"`
	FilePath   string `mapstructure:"file_path"`
}

// SecurityConfig contains security-related settings.
type SecurityConfig struct {
	// WarningAcknowledged is set once the user has seen the data-sharing notice.
	WarningAcknowledged bool `mapstructure:"warning_acknowledged"`
}

// Manager defines the interface for configuration management.
type Manager interface {
	Load() (*Config, error)
	Set(key string, value string) error
	Get(key string) (string, error)
	Init() error
	List() map[string]interface{}
	GetConfigPath() string
}
