// Package processor prepares diffs and documents for a prompt: it drops
// noise, summarizes oversized diffs and enforces the prompt budget.
package processor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chacha/chacha/internal/pkg/git"
)

// Default thresholds for diff processing.
const (
	DefaultDiffSizeThreshold = 10 * 1024 // 10KB - triggers summarizing
	DefaultMaxChunkSize      = 4 * 1024  // per-file content kept once summarizing
	DefaultMaxHunks          = 2
	DefaultMaxHunkLines      = 60
)

// ProcessedDiff contains the result of diff processing.
type ProcessedDiff struct {
	Chunks     []git.DiffChunk
	Excluded   []string
	Summary    string
	TotalSize  int
	Summarized bool
}

// Text renders the processed diff for a prompt.
func (d *ProcessedDiff) Text() string {
	var sb strings.Builder
	if d.Summary != "" {
		sb.WriteString(d.Summary)
		sb.WriteString("\n")
	}
	for _, chunk := range d.Chunks {
		sb.WriteString(chunk.Content)
		if !strings.HasSuffix(chunk.Content, "\n") {
			sb.WriteString("\n")
		}
	}
	if len(d.Excluded) > 0 {
		fmt.Fprintf(&sb, "\n(omitted: %s)\n", strings.Join(d.Excluded, ", "))
	}
	return sb.String()
}

// DiffProcessor defines the interface for diff processing.
type DiffProcessor interface {
	Process(chunks []git.DiffChunk) *ProcessedDiff
}

// ProcessorConfig holds configuration for the diff processor.
type ProcessorConfig struct {
	DiffSizeThreshold int      // Size in bytes that triggers summarizing
	MaxChunkSize      int      // Per-file bytes kept when summarizing
	ExcludePatterns   []string // Base-name globs dropped from the prompt
}

// DefaultProcessor implements the DiffProcessor interface.
type DefaultProcessor struct {
	config ProcessorConfig
}

// NewProcessor creates a new DefaultProcessor with default configuration.
func NewProcessor() *DefaultProcessor {
	return NewProcessorWithConfig(ProcessorConfig{})
}

// NewProcessorWithConfig creates a new DefaultProcessor with custom configuration.
func NewProcessorWithConfig(config ProcessorConfig) *DefaultProcessor {
	if config.DiffSizeThreshold <= 0 {
		config.DiffSizeThreshold = DefaultDiffSizeThreshold
	}
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultMaxChunkSize
	}
	return &DefaultProcessor{config: config}
}

// Process filters lock, binary and excluded files, and summarizes when the
// remaining diff is larger than the threshold.
func (p *DefaultProcessor) Process(chunks []git.DiffChunk) *ProcessedDiff {
	kept, excluded := p.filter(chunks)

	result := &ProcessedDiff{
		Chunks:    kept,
		Excluded:  excluded,
		TotalSize: calculateTotalSize(kept),
	}

	if result.TotalSize > p.config.DiffSizeThreshold {
		result.Summarized = true
		result.Chunks = p.processLargeFiles(kept)
		result.Summary = generateSummary(kept)
	}
	return result
}

func (p *DefaultProcessor) filter(chunks []git.DiffChunk) (kept []git.DiffChunk, excluded []string) {
	kept = make([]git.DiffChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.IsLockFile || chunk.IsBinary || p.isExcluded(chunk.FilePath) {
			excluded = append(excluded, chunk.FilePath)
			continue
		}
		kept = append(kept, chunk)
	}
	return kept, excluded
}

func (p *DefaultProcessor) isExcluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range p.config.ExcludePatterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// calculateTotalSize calculates the total size of all chunk contents in bytes.
func calculateTotalSize(chunks []git.DiffChunk) int {
	total := 0
	for _, chunk := range chunks {
		total += len(chunk.Content)
	}
	return total
}

// processLargeFiles keeps the first hunks of files larger than MaxChunkSize.
func (p *DefaultProcessor) processLargeFiles(chunks []git.DiffChunk) []git.DiffChunk {
	processed := make([]git.DiffChunk, len(chunks))
	for i, chunk := range chunks {
		processed[i] = chunk
		if len(chunk.Content) > p.config.MaxChunkSize {
			processed[i].Content = fileSummary(chunk) + topHunks(chunk.Content, DefaultMaxHunks, DefaultMaxHunkLines)
		}
	}
	return processed
}

func fileSummary(chunk git.DiffChunk) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s (%s, +%d/-%d", chunk.FilePath, chunk.ChangeType, chunk.Additions, chunk.Deletions)
	if chunk.OldPath != "" {
		fmt.Fprintf(&sb, ", renamed from %s", chunk.OldPath)
	}
	fmt.Fprintf(&sb, ", %d bytes of diff, first hunks shown)\n", len(chunk.Content))
	return sb.String()
}

// topHunks returns up to maxHunks hunks of a file diff, each cut to
// maxLines lines.
func topHunks(content string, maxHunks, maxLines int) string {
	var hunks [][]string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "@@") {
			if len(hunks) == maxHunks {
				break
			}
			hunks = append(hunks, []string{line})
			continue
		}
		if len(hunks) > 0 {
			last := len(hunks) - 1
			hunks[last] = append(hunks[last], line)
		}
	}
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, hunk := range hunks {
		if len(hunk) > maxLines {
			hunk = append(hunk[:maxLines:maxLines], "…")
		}
		sb.WriteString(strings.TrimRight(strings.Join(hunk, "\n"), "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// generateSummary creates an overall summary of all changes.
func generateSummary(chunks []git.DiffChunk) string {
	if len(chunks) == 0 {
		return "No changes"
	}

	var sb strings.Builder
	sb.WriteString("Summary of changes:\n")

	totalAdditions := 0
	totalDeletions := 0

	for _, chunk := range chunks {
		changeSymbol := "M"
		switch chunk.ChangeType {
		case git.ChangeTypeAdded:
			changeSymbol = "A"
		case git.ChangeTypeDeleted:
			changeSymbol = "D"
		case git.ChangeTypeRenamed:
			changeSymbol = "R"
		}

		fmt.Fprintf(&sb, "  [%s] %s (+%d/-%d)\n", changeSymbol, chunk.FilePath, chunk.Additions, chunk.Deletions)
		if chunk.OldPath != "" {
			fmt.Fprintf(&sb, "      (renamed from %s)\n", chunk.OldPath)
		}

		totalAdditions += chunk.Additions
		totalDeletions += chunk.Deletions
	}

	fmt.Fprintf(&sb, "\nTotal: %d files, +%d additions, -%d deletions\n", len(chunks), totalAdditions, totalDeletions)
	return sb.String()
}
