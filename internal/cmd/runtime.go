package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/chacha/chacha/internal/app"
	"github.com/chacha/chacha/internal/pkg/config"
	apperrors "github.com/chacha/chacha/internal/pkg/errors"
	"github.com/chacha/chacha/internal/pkg/security"
	"github.com/chacha/chacha/internal/pkg/ui"
)

// runtime is what every provider-backed command needs, built once per
// invocation from flags, the config file and the environment.
type runtime struct {
	cfgMgr *config.ViperManager
	cfg    *config.Config
	env    config.Env
	ui     ui.Manager
	model  string
}

// loadConfig builds the config manager from --config and applies the
// --timeout override.
func loadConfig(cmd *cobra.Command) (*config.ViperManager, *config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}
	if configPath != "" {
		apperrors.Debug("Using custom config path: %s", configPath)
	}

	if cmd.Flags().Changed("timeout") {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		if timeout <= 0 {
			return nil, nil, apperrors.NewUsageError(fmt.Sprintf("--timeout must be positive, got %s", timeout))
		}
		cfgMgr.SetOverride("request.timeout", timeout)
	}

	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, nil, apperrors.NewInvalidConfigError(fmt.Sprintf("%s: %v", cfgMgr.GetConfigPath(), err))
	}
	return cfgMgr, cfg, nil
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfgMgr, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	model, _ := cmd.Flags().GetString("model")

	rt := &runtime{
		cfgMgr: cfgMgr,
		cfg:    cfg,
		env:    config.EnvFromOS(),
		ui:     ui.NewDefaultManager(cfg.UI.ColorEnabled),
		model:  model,
	}

	if apperrors.IsVerbose() {
		apperrors.Info("Config file: %s", cfgMgr.GetConfigPath())
		apperrors.Info("Request timeout: %s", cfg.Request.Timeout)
		if model != "" {
			apperrors.Info("Model override: %s", model)
		}
	}
	return rt, nil
}

func (rt *runtime) clientFactory() app.ClientFactory {
	return app.DefaultClientFactory(rt.env, rt.cfg, rt.model)
}

// stdinIsTerminal reports whether prompts can be answered.
func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (rt *runtime) prompter() ui.Prompter {
	if stdinIsTerminal() {
		return ui.NewHuhPrompter(os.Getenv("ACCESSIBLE") != "")
	}
	return ui.NonInteractivePrompter{}
}

// ensureNoticeAcknowledged shows the data-sharing notice until the user has
// accepted it once. autoAccept records the acknowledgement without asking.
// Without a terminal the notice is printed and the command goes on.
func (rt *runtime) ensureNoticeAcknowledged(autoAccept bool) error {
	if rt.cfgMgr.IsSecurityWarningAcknowledged() {
		return nil
	}

	fmt.Fprint(os.Stderr, security.FirstUseWarning)

	switch {
	case autoAccept:
		fmt.Fprintln(os.Stderr, "Acknowledged (--yes).")
	case stdinIsTerminal():
		ok, err := rt.prompter().PromptConfirm("Do you understand and wish to continue?")
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewUsageError("data-sharing notice not acknowledged; nothing was sent")
		}
	default:
		return nil
	}

	if err := rt.cfgMgr.AcknowledgeSecurityWarning(); err != nil {
		apperrors.Warn("Failed to save security acknowledgment: %v", err)
	}
	fmt.Fprintln(os.Stderr, security.FirstUseAcknowledgment)
	return nil
}
