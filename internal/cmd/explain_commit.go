package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chacha/chacha/internal/app"
	"github.com/chacha/chacha/internal/pkg/git"
)

// newExplainCommitCmd creates explain-commit. It is registered twice, as
// "explain-commit" and as "explain commit".
func newExplainCommitCmd(use string) *cobra.Command {
	var (
		spec  bool
		count int
	)

	cmd := &cobra.Command{
		Use:   use + " [TARGET]",
		Short: "Explain one or more commits",
		Long: `Send commits to the AI provider and print one explanation per commit.

TARGET is any revision git understands (a hash, a tag, HEAD~2). A negative
number counts back from HEAD: -1 is HEAD, -2 the commit before it. Pass it
after -- so it is not read as a flag. TARGET, --spec and -c are mutually
exclusive; with none of them HEAD is explained.

Examples:
  chacha explain-commit                # HEAD
  chacha explain-commit a1b2c3d
  chacha explain-commit -- -2          # HEAD~1
  chacha explain-commit -c 3           # the last three commits, newest first`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.ExplainCommitOptions{
				Spec:     spec,
				CountSet: cmd.Flags().Changed("count"),
				Count:    count,
			}
			if len(args) == 1 {
				opts.Target = args[0]
			}
			return runExplainCommit(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&spec, "spec", false, "Explain the most recent commit")
	cmd.Flags().IntVarP(&count, "count", "c", 0, "Explain the last N commits")

	return cmd
}

func runExplainCommit(cmd *cobra.Command, opts app.ExplainCommitOptions) error {
	// Usage errors come before any config is read or the notice is shown.
	if err := opts.Validate(); err != nil {
		return err
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	if err := rt.ensureNoticeAcknowledged(false); err != nil {
		return err
	}

	orch := app.NewOrchestrator(rt.clientFactory(), nil, git.NewClient(), rt.ui, rt.cfg, rt.env)
	return orch.ExplainCommit(cmd.Context(), opts)
}
