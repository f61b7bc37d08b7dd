package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chacha/chacha/internal/pkg/config"
	apperrors "github.com/chacha/chacha/internal/pkg/errors"
	"github.com/chacha/chacha/internal/pkg/security"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage chacha configuration",
		Long: `Manage chacha configuration settings.

Use subcommands to initialize, view, or modify configuration values.
Configuration is stored in ~/.chacha/config.yaml by default. API keys are
read from the environment and never stored here.`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigGetCmd())
	configCmd.AddCommand(newConfigListCmd())

	return configCmd
}

func newConfigManager(cmd *cobra.Command) (*config.ViperManager, error) {
	configPath, _ := cmd.Flags().GetString("config")
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}
	return mgr, nil
}

// newConfigInitCmd creates the 'config init' subcommand.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long: `Create a new configuration file at ~/.chacha/config.yaml with default values.

The configuration file will be created with permissions 0600 (user read/write only).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			if err := mgr.Init(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at %s\n", mgr.GetConfigPath())
			fmt.Fprintln(cmd.OutOrStdout(), "Run 'chacha setup' to configure a provider key.")
			return nil
		},
	}
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value by key.

Supports nested keys using dot notation.

Examples:
  chacha config set anthropic.model claude-3-5-haiku-latest
  chacha config set request.timeout 30s
  chacha config set request.retries 2
  chacha config set prompt.max_tokens 4000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if isSecretKey(key) {
				return apperrors.NewUsageError("API keys are not stored in the config file").
					WithSuggestion("Run 'chacha setup' or export the key in your shell")
			}

			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			if err := mgr.Set(key, value); err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to set "+key)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			value, err := mgr.Get(args[0])
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to read "+args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), displayValue(args[0], value))
			return nil
		},
	}
}

// newConfigListCmd creates the 'config list' subcommand.
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			if !mgr.ConfigExists() {
				fmt.Fprintf(cmd.ErrOrStderr(), "No config file at %s; showing defaults.\n", mgr.GetConfigPath())
			}
			printSettings(cmd.OutOrStdout(), "", mgr.List())
			return nil
		},
	}
}

// printSettings prints nested settings in key order, two spaces per level.
func printSettings(w io.Writer, indent string, settings map[string]interface{}) {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch v := settings[key].(type) {
		case map[string]interface{}:
			fmt.Fprintf(w, "%s%s:\n", indent, key)
			printSettings(w, indent+"  ", v)
		default:
			fmt.Fprintf(w, "%s%s: %s\n", indent, key, displayValue(key, fmt.Sprintf("%v", v)))
		}
	}
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "api_key") || strings.HasSuffix(key, "apikey")
}

// displayValue masks anything that looks like a key.
func displayValue(key, value string) string {
	if value != "" && isSecretKey(key) {
		return security.MaskAPIKey(value)
	}
	return value
}
