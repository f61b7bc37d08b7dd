package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the directory under $HOME holding chacha state.
	DefaultConfigDir = ".chacha"
	// DefaultConfigFileExt is the config file format.
	DefaultConfigFileExt = "yaml"
)

// Defaults for provider calls.
const (
	DefaultAnthropicModel    = "claude-3-5-sonnet-latest"
	DefaultAnthropicEndpoint = "https://api.anthropic.com"
	DefaultGeminiModel       = "gemini-2.5-flash"
	DefaultGeminiEndpoint    = "https://generativelanguage.googleapis.com"
	DefaultTimeout           = 60 * time.Second
	DefaultMaxTokens         = 2000
	DefaultTemperature       = 0.2
	DefaultExtractMaxBytes   = 1 << 20
	DefaultMaxPatchBytes     = 80 * 1024
)

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v          *viper.Viper
	configPath string
}

// NewManager creates a new configuration manager.
// If configPath is empty, it uses ~/.chacha/config.yaml.
func NewManager(configPath string) (*ViperManager, error) {
	v := viper.New()
	v.SetConfigType(DefaultConfigFileExt)

	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, DefaultConfigDir, "config.yaml")
	}
	v.SetConfigFile(configPath)

	v.SetEnvPrefix("CHACHA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	return &ViperManager{
		v:          v,
		configPath: configPath,
	}, nil
}

// bindEnvVars binds nested keys explicitly; AutomaticEnv alone misses them
// during Unmarshal.
func bindEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		envName := "CHACHA_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envName)
	}
	// The documented prompt budget variable predates the nested key.
	_ = v.BindEnv("prompt.max_tokens", "CHACHA_PROMPT_MAX_TOKENS", EnvMaxPromptTokens)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.model", DefaultAnthropicModel)
	v.SetDefault("anthropic.endpoint", DefaultAnthropicEndpoint)
	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.endpoint", DefaultGeminiEndpoint)

	v.SetDefault("request.timeout", DefaultTimeout)
	v.SetDefault("request.max_tokens", DefaultMaxTokens)
	v.SetDefault("request.temperature", DefaultTemperature)
	v.SetDefault("request.retries", 0)

	v.SetDefault("extract.max_bytes", DefaultExtractMaxBytes)

	v.SetDefault("prompt.max_tokens", 0)
	v.SetDefault("prompt.max_patch_bytes", DefaultMaxPatchBytes)

	v.SetDefault("git.diff_size_threshold", 10240)
	v.SetDefault("git.exclude_patterns", []string{
		"*.lock",
		"go.sum",
		"package-lock.json",
		"yarn.lock",
		"pnpm-lock.yaml",
		"Cargo.lock",
	})
	v.SetDefault("git.remote", "origin")

	v.SetDefault("ui.color_enabled", true)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)
	homeDir, _ := os.UserHomeDir()
	v.SetDefault("history.file_path", filepath.Join(homeDir, DefaultConfigDir, "history.json"))

	v.SetDefault("security.warning_acknowledged", false)
}

// GetConfigPath returns the path to the configuration file.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// readConfig reads the file if present. A missing file is not an error.
func (m *ViperManager) readConfig() error {
	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load loads the configuration from file, environment, and defaults.
// Priority: flags > env > file > defaults
func (m *ViperManager) Load() (*Config, error) {
	if err := m.readConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Request.Timeout <= 0 {
		cfg.Request.Timeout = DefaultTimeout
	}
	if cfg.Request.Retries < 0 {
		cfg.Request.Retries = 0
	}
	if cfg.Prompt.MaxTokens < 0 {
		cfg.Prompt.MaxTokens = 0
	}

	return &cfg, nil
}

// Init creates a new configuration file with default values.
// Sets file permissions to 0600.
func (m *ViperManager) Init() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", m.configPath)
	}

	if err := m.ensureDir(); err != nil {
		return err
	}

	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

func (m *ViperManager) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// Set persists a configuration value by dotted key (e.g. "gemini.model").
// The file is created if needed.
func (m *ViperManager) Set(key string, value string) error {
	if err := m.readConfig(); err != nil {
		return err
	}

	convertedValue, err := convertValue(value, m.v.Get(key))
	if err != nil {
		return fmt.Errorf("failed to convert value for key %s: %w", key, err)
	}

	m.v.Set(key, convertedValue)

	if err := m.ensureDir(); err != nil {
		return err
	}
	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Chmod(m.configPath, 0600)
}

// convertValue converts a string value to the type of the existing value.
func convertValue(value string, existingValue interface{}) (interface{}, error) {
	if existingValue == nil {
		return value, nil
	}

	switch existingValue.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.ParseInt(value, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(value, 64)
	case time.Duration:
		return time.ParseDuration(value)
	case []interface{}, []string:
		return strings.Split(value, ","), nil
	default:
		return value, nil
	}
}

// Get retrieves a configuration value by key.
func (m *ViperManager) Get(key string) (string, error) {
	if err := m.readConfig(); err != nil {
		return "", err
	}

	value := m.v.Get(key)
	if value == nil {
		return "", fmt.Errorf("key not found: %s", key)
	}

	return fmt.Sprintf("%v", value), nil
}

// List returns all configuration values as a map.
func (m *ViperManager) List() map[string]interface{} {
	_ = m.readConfig()
	return m.v.AllSettings()
}

// SetOverride sets a value for this process only. Flags use it.
func (m *ViperManager) SetOverride(key string, value interface{}) {
	m.v.Set(key, value)
}

// ConfigExists checks if the configuration file exists.
func (m *ViperManager) ConfigExists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}

// AcknowledgeSecurityWarning records that the data-sharing notice was shown.
func (m *ViperManager) AcknowledgeSecurityWarning() error {
	return m.Set("security.warning_acknowledged", "true")
}

// IsSecurityWarningAcknowledged checks if the notice has been shown before.
func (m *ViperManager) IsSecurityWarningAcknowledged() bool {
	_ = m.readConfig()
	return m.v.GetBool("security.warning_acknowledged")
}
