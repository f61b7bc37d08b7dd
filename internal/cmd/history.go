package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chacha/chacha/internal/pkg/history"
)

const (
	// DefaultHistoryLimit is the default number of history entries to display.
	DefaultHistoryLimit = 20
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View past commit runs",
		Long: `View the commits made, cancelled or left unpushed by 'chacha commit run'.

By default, displays the most recent 20 entries. Use --limit to change the number of entries shown.

Examples:
  chacha history           # Show last 20 entries
  chacha history --limit 5 # Show last 5 entries
  chacha history clear     # Clear all history`,
		Args: cobra.NoArgs,
		RunE: runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "l", DefaultHistoryLimit, "Number of entries to display")

	historyCmd.AddCommand(newHistoryClearCmd())

	return historyCmd
}

func historyManager(cmd *cobra.Command) (*history.FileManager, bool, error) {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, false, err
	}
	return history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries), cfg.History.Enabled, nil
}

// runHistoryList displays the history entries.
func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	historyMgr, enabled, err := historyManager(cmd)
	if err != nil {
		return err
	}
	if !enabled {
		fmt.Fprintln(out, "History is disabled. Enable it with: chacha config set history.enabled true")
		return nil
	}

	entries, err := historyMgr.List(limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	fmt.Fprintf(out, "Showing %d most recent entries:\n\n", len(entries))

	// Most recent first
	for i := len(entries) - 1; i >= 0; i-- {
		printHistoryEntry(out, entries[i], len(entries)-i)
	}

	return nil
}

// printHistoryEntry formats and prints a single history entry.
func printHistoryEntry(w io.Writer, entry *history.Entry, index int) {
	timestamp := entry.Timestamp.Local().Format(time.RFC3339)

	fmt.Fprintf(w, "[%d] %s (%s)\n", index, timestamp, strings.ReplaceAll(string(entry.Status), "_", " "))

	if entry.Hash != "" {
		hash := entry.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Fprintf(w, "    Commit: %s on %s\n", hash, entry.Branch)
	} else if entry.Branch != "" {
		fmt.Fprintf(w, "    Branch: %s\n", entry.Branch)
	}

	if entry.Provider != "" {
		fmt.Fprintf(w, "    Provider: %s", entry.Provider)
		if entry.Model != "" {
			fmt.Fprintf(w, " (%s)", entry.Model)
		}
		fmt.Fprintln(w)
	}

	if len(entry.Files) > 0 {
		fmt.Fprintf(w, "    Files: %s\n", strings.Join(entry.Files, ", "))
	}

	fmt.Fprintln(w, "    Message:")
	for _, line := range strings.Split(entry.Message, "\n") {
		fmt.Fprintf(w, "      %s\n", line)
	}

	fmt.Fprintln(w)
}

// newHistoryClearCmd creates the 'history clear' subcommand.
func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all history entries",
		Long: `Delete all entries from the history file.

This action cannot be undone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			historyMgr, _, err := historyManager(cmd)
			if err != nil {
				return err
			}

			if err := historyMgr.Clear(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "History cleared successfully.")
			return nil
		},
	}
}
