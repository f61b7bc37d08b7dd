package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chacha/chacha/internal/app"
	"github.com/chacha/chacha/internal/pkg/extract"
)

// NewExplainCmd creates the explain command.
func NewExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <path>",
		Short: "Explain a source file or PDF",
		Long: `Send a file to the AI provider and print an explanation.

Text files must be UTF-8 or UTF-16 with a byte order mark. PDFs are
converted to text first. Files larger than extract.max_bytes (default
1 MiB) are refused; set it to 0 to remove the limit.

Examples:
  chacha explain main.go
  chacha explain report.pdf
  chacha explain commit        # same as explain-commit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, args[0], (*app.Orchestrator).Explain)
		},
	}
}

// NewFixCmd creates the fix command.
func NewFixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix <path>",
		Short: "Suggest fixes for a source file",
		Long: `Send a file to the AI provider and print suggested fixes and improvements.

The file itself is never modified.

Examples:
  chacha fix handler.go`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, args[0], (*app.Orchestrator).Fix)
		},
	}
}

func runDescribe(cmd *cobra.Command, path string, run func(*app.Orchestrator, context.Context, string) error) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	if err := rt.ensureNoticeAcknowledged(false); err != nil {
		return err
	}

	extractor := extract.New(rt.cfg.Extract.MaxBytes, extract.LedongthucReader{})
	orch := app.NewOrchestrator(rt.clientFactory(), extractor, nil, rt.ui, rt.cfg, rt.env)
	return run(orch, cmd.Context(), path)
}
