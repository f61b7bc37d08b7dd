package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chacha/chacha/internal/app"
	"github.com/chacha/chacha/internal/pkg/git"
	"github.com/chacha/chacha/internal/pkg/history"
	"github.com/chacha/chacha/internal/pkg/processor"
)

// CommitFlags holds the flags for the commit run command.
type CommitFlags struct {
	Auto   bool
	Yes    bool
	Branch string
}

// NewCommitCmd creates the commit command and its run subcommand.
func NewCommitCmd() *cobra.Command {
	commitCmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit with an AI-written message",
	}
	commitCmd.AddCommand(newCommitRunCmd())
	return commitCmd
}

func newCommitRunCmd() *cobra.Command {
	flags := &CommitFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Select files, write a message, commit and push",
		Long: `Pick changed files, stage them, let the AI provider write a commit
message from the staged diff, then commit and push after you confirm.

Nothing is staged until a provider has been resolved, and nothing is
committed unless the message was written successfully. When the push fails
the local commit is kept and reported.

Examples:
  chacha commit run                  # choose files interactively
  chacha commit run --auto           # every changed file
  chacha commit run --auto --yes     # no prompts at all
  chacha commit run --branch release`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Auto, "auto", false, "Commit every changed file without asking which")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Commit and push without confirmation")
	cmd.Flags().StringVarP(&flags.Branch, "branch", "b", "", "Push to this branch instead of the current one")

	return cmd
}

// runCommit executes the commit run command logic.
func runCommit(cmd *cobra.Command, flags *CommitFlags) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	if err := rt.ensureNoticeAcknowledged(flags.Yes); err != nil {
		return err
	}

	gitClient := git.NewClient()
	gitClient.SetRemote(rt.cfg.Git.Remote)

	diffProcessor := processor.NewProcessorWithConfig(processor.ProcessorConfig{
		DiffSizeThreshold: rt.cfg.Git.DiffSizeThreshold,
		ExcludePatterns:   rt.cfg.Git.ExcludePatterns,
	})

	var recorder history.Recorder
	if rt.cfg.History.Enabled {
		recorder = history.NewFileManager(rt.cfg.History.FilePath, rt.cfg.History.MaxEntries)
	}

	flow := app.NewCommitFlow(
		rt.clientFactory(),
		gitClient,
		rt.prompter(),
		rt.ui,
		diffProcessor,
		recorder,
		rt.cfg,
		rt.env,
	)

	_, err = flow.Run(cmd.Context(), app.CommitOptions{
		Auto:   flags.Auto,
		Yes:    flags.Yes,
		Branch: flags.Branch,
	})
	return err
}
