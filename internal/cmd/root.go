// Package cmd contains the CLI command definitions for chacha.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chacha/chacha/internal/pkg/config"
	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

// NewRootCmd creates the root command for the chacha CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chacha",
		Short: "AI helper for files and git",
		Long: `chacha sends a file, a commit or your staged changes to an AI provider
(Anthropic or Google Gemini) and prints what comes back.

The provider is chosen from the environment: CHACHA_PROVIDER selects one
explicitly, otherwise the first of CLAUDE_API_KEY, GEMINI_API_KEY and
GOOGLE_API_KEY that is set wins. Run 'chacha setup' to configure a key.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			apperrors.SetVerbose(verbose)

			// .env only fills variables the shell has not set.
			if err := config.LoadDotEnv(); err != nil {
				apperrors.Warn("failed to read .env: %v", err)
			}
			if level := config.EnvFromOS().Get(config.EnvLogLevel); level != "" && !verbose {
				apperrors.SetLevel(level)
			}
			return nil
		},
	}

	rootCmd.SetVersionTemplate(`chacha {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperrors.NewUsageError(err.Error()).
			WithSuggestion("Run '" + cmd.CommandPath() + " --help' for usage")
	})

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.chacha/config.yaml)")
	rootCmd.PersistentFlags().String("model", "", "Model to use instead of the configured one")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Provider request timeout (default: 60s)")

	explainCmd := NewExplainCmd()
	explainCmd.AddCommand(newExplainCommitCmd("commit"))

	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(NewFixCmd())
	rootCmd.AddCommand(newExplainCommitCmd("explain-commit"))
	rootCmd.AddCommand(NewCommitCmd())
	rootCmd.AddCommand(NewSetupCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewHistoryCmd())

	return rootCmd
}
