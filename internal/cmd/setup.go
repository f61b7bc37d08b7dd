package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chacha/chacha/internal/pkg/config"
	apperrors "github.com/chacha/chacha/internal/pkg/errors"
	"github.com/chacha/chacha/internal/pkg/security"
	"github.com/chacha/chacha/internal/pkg/shellrc"
	"github.com/chacha/chacha/internal/pkg/ui"
)

// NewSetupCmd creates the setup command.
func NewSetupCmd() *cobra.Command {
	var (
		provider string
		write    bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure a provider and its API key",
		Long: `Choose a provider, enter its API key and pick a model.

The model is saved to the config file. The key is never written there: it
is exported from your shell profile together with CHACHA_PROVIDER, or, if
you prefer, printed as instructions to add yourself.

Examples:
  chacha setup
  chacha setup --provider gemini
  chacha setup --provider anthropic --write`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, provider, write)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Provider to configure (anthropic, gemini)")
	cmd.Flags().BoolVar(&write, "write", false, "Update the shell profile without asking")

	return cmd
}

func runSetup(cmd *cobra.Command, provider string, write bool) error {
	out := cmd.OutOrStdout()

	homeDir, _ := os.UserHomeDir()
	shell := shellrc.DetectShell(os.Getenv("SHELL"))
	profile := shellrc.DisplayProfile(shellrc.ProfilePath(shell, homeDir), homeDir)

	if !stdinIsTerminal() {
		envVar := config.EnvClaudeAPIKey
		if provider != "" {
			v, err := ui.ProviderEnvVar(provider)
			if err != nil {
				return err
			}
			envVar = v
			provider = strings.ToLower(provider)
		} else {
			provider = "anthropic"
		}
		vars := setupVars(provider, envVar, shellrc.PlaceholderValue)
		fmt.Fprint(out, shellrc.GetManualInstructions(shell, profile, vars).Format())
		return nil
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}

	canWrite := shell != shellrc.ShellPowerShell
	result, err := ui.RunInteractiveSetup(cfgMgr, provider, canWrite && !write, profile)
	if err != nil {
		return err
	}

	if err := security.ValidateAPIKeyFormat(result.Provider, result.APIKey); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	apperrors.Debug("Configured %s with key %s", result.Provider, security.MaskAPIKey(result.APIKey))

	if !canWrite || !(write || result.WriteProfile) {
		vars := setupVars(result.Provider, result.EnvVar, security.MaskAPIKey(result.APIKey))
		fmt.Fprint(out, shellrc.GetManualInstructions(shell, profile, vars).Format())
		fmt.Fprintln(out, "Replace the masked key with your full key.")
		return nil
	}

	writer, err := shellrc.ForCurrentShell()
	if err != nil {
		return err
	}
	res, err := writer.SetVars(setupVars(result.Provider, result.EnvVar, result.APIKey))
	if err != nil {
		vars := setupVars(result.Provider, result.EnvVar, shellrc.PlaceholderValue)
		fmt.Fprint(out, shellrc.GetManualInstructions(shell, profile, vars).Format())
		return err
	}

	fmt.Fprintf(out, "[OK] %s configured in %s\n", result.EnvVar, shellrc.DisplayProfile(res.ProfilePath, homeDir))
	if res.Replaced > 0 {
		fmt.Fprintf(out, "Replaced %d earlier setting(s).\n", res.Replaced)
	}
	fmt.Fprintln(out, res.ReloadHint())
	return nil
}

func setupVars(provider, envVar, key string) []shellrc.Var {
	return []shellrc.Var{
		{Name: envVar, Value: key},
		{Name: config.EnvProvider, Value: provider},
	}
}
