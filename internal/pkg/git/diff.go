package git

import (
	"path/filepath"
	"strings"
)

// ChangeType represents the type of change in a diff.
type ChangeType int

const (
	ChangeTypeAdded ChangeType = iota
	ChangeTypeModified
	ChangeTypeDeleted
	ChangeTypeRenamed
)

// String returns the string representation of ChangeType.
func (c ChangeType) String() string {
	switch c {
	case ChangeTypeAdded:
		return "added"
	case ChangeTypeModified:
		return "modified"
	case ChangeTypeDeleted:
		return "deleted"
	case ChangeTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// DiffChunk is the part of a unified diff that touches one file.
type DiffChunk struct {
	FilePath   string
	OldPath    string // set for renames
	ChangeType ChangeType
	Additions  int
	Deletions  int
	Content    string
	IsLockFile bool
	IsBinary   bool
}

// lockFilePatterns contains patterns for lock files that should be excluded.
var lockFilePatterns = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"go.sum",
	"Cargo.lock",
	"Gemfile.lock",
	"composer.lock",
	"poetry.lock",
	"Pipfile.lock",
}

// IsLockFile reports whether the path names a dependency lock file.
func IsLockFile(filePath string) bool {
	baseName := filepath.Base(filePath)
	for _, pattern := range lockFilePatterns {
		if baseName == pattern {
			return true
		}
	}
	return strings.HasSuffix(baseName, ".lock")
}

// ParseDiff splits unified diff text into one chunk per file and counts
// added and removed lines.
func ParseDiff(diff string) []DiffChunk {
	var chunks []DiffChunk
	for _, fileDiff := range splitByFileDiff(diff) {
		if strings.TrimSpace(fileDiff) == "" {
			continue
		}
		chunks = append(chunks, parseFileDiff(fileDiff))
	}
	return chunks
}

// FileStats returns per-file line counts for a unified diff.
func FileStats(diff string) []FileStat {
	chunks := ParseDiff(diff)
	stats := make([]FileStat, 0, len(chunks))
	for _, chunk := range chunks {
		stats = append(stats, FileStat{Path: chunk.FilePath, Additions: chunk.Additions, Deletions: chunk.Deletions})
	}
	return stats
}

// splitByFileDiff splits on "diff --git" headers, keeping the header.
func splitByFileDiff(diff string) []string {
	parts := strings.Split(diff, "diff --git ")
	var result []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i > 0 {
			part = "diff --git " + part
		}
		result = append(result, part)
	}
	return result
}

func parseFileDiff(fileDiff string) DiffChunk {
	chunk := DiffChunk{
		Content:    fileDiff,
		ChangeType: ChangeTypeModified,
	}

	inHunk := false
	for _, line := range strings.Split(fileDiff, "\n") {
		if inHunk {
			switch {
			case strings.HasPrefix(line, "+"):
				chunk.Additions++
			case strings.HasPrefix(line, "-"):
				chunk.Deletions++
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "diff --git "):
			chunk.FilePath = extractFilePath(line)
		case strings.HasPrefix(line, "new file mode"):
			chunk.ChangeType = ChangeTypeAdded
		case strings.HasPrefix(line, "deleted file mode"):
			chunk.ChangeType = ChangeTypeDeleted
		case strings.HasPrefix(line, "rename from "):
			chunk.OldPath = strings.TrimPrefix(line, "rename from ")
			chunk.ChangeType = ChangeTypeRenamed
		case strings.HasPrefix(line, "rename to "):
			chunk.FilePath = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "Binary files"), strings.HasPrefix(line, "GIT binary patch"):
			chunk.IsBinary = true
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		}
	}

	chunk.IsLockFile = IsLockFile(chunk.FilePath)
	return chunk
}

// extractFilePath extracts the file path from a diff header line.
// Format: "diff --git a/path/to/file b/path/to/file"
func extractFilePath(line string) string {
	line = strings.TrimPrefix(line, "diff --git ")

	if idx := strings.LastIndex(line, " b/"); idx >= 0 {
		return line[idx+3:]
	}

	if strings.HasPrefix(line, "a/") {
		first, _, _ := strings.Cut(line, " ")
		return strings.TrimPrefix(first, "a/")
	}
	return line
}
