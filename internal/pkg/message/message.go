// Package message turns provider output into a commit message.
package message

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

// MaxSubjectLength is the recommended maximum length for commit subject lines.
const MaxSubjectLength = 72

var (
	// labelRegex matches a leading "Commit message:" style label.
	labelRegex = regexp.MustCompile(`(?i)^\s*(\*\*)?(suggested\s+)?(git\s+)?commit(\s+message)?(\*\*)?\s*:\s*(\*\*)?\s*`)
	// fenceRegex matches an opening or closing code fence line.
	fenceRegex = regexp.MustCompile("^\\s*```[\\w-]*\\s*$")
)

// quotePairs are wrappers removed when they enclose the whole message.
var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"`", "`"},
	{"“", "”"},
	{"‘", "’"},
}

// Clean strips formatting a model tends to add around a commit message:
// code fences, a "Commit message:" label, enclosing quotes, trailing spaces
// and runs of blank lines. An empty result is a ProviderResponseInvalid
// error for provider.
func Clean(provider, raw string) (string, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.TrimSpace(text)
	text = stripFences(text)
	text = labelRegex.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = stripQuotes(text)
	text = normalizeLines(text)

	if text == "" {
		return "", apperrors.NewProviderResponseInvalidError(provider, "empty commit message")
	}
	return text, nil
}

// stripFences drops fence lines. When the text holds a fenced block, only
// the block is kept.
func stripFences(text string) string {
	lines := strings.Split(text, "\n")
	var inside, outside []string
	inFence, sawFence := false, false
	for _, line := range lines {
		if fenceRegex.MatchString(line) {
			inFence = !inFence
			sawFence = true
			continue
		}
		if inFence {
			inside = append(inside, line)
		} else {
			outside = append(outside, line)
		}
	}
	if sawFence && strings.TrimSpace(strings.Join(inside, "")) != "" {
		return strings.TrimSpace(strings.Join(inside, "\n"))
	}
	return strings.TrimSpace(strings.Join(outside, "\n"))
}

func stripQuotes(text string) string {
	for {
		stripped := false
		for _, q := range quotePairs {
			if len(text) >= len(q[0])+len(q[1]) && strings.HasPrefix(text, q[0]) && strings.HasSuffix(text, q[1]) {
				inner := text[len(q[0]) : len(text)-len(q[1])]
				// "a" and "b" is not one quoted string.
				if q[0] == q[1] && strings.Contains(inner, q[0]) {
					continue
				}
				text = strings.TrimSpace(inner)
				stripped = true
			}
		}
		if !stripped {
			return text
		}
	}
}

// normalizeLines trims trailing spaces and collapses blank runs to one line.
func normalizeLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// CommitMessage is a cleaned message split into its parts.
type CommitMessage struct {
	Subject string
	Body    string // Optional detailed description
	Footer  string // Optional trailers (breaking changes, refs)
}

// NewCommitMessage creates a new CommitMessage from raw text.
func NewCommitMessage(rawText string) *CommitMessage {
	cm := &CommitMessage{}
	cm.Parse(rawText)
	return cm
}

// Parse parses raw text into the CommitMessage structure.
func (cm *CommitMessage) Parse(rawText string) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return
	}

	lines := strings.Split(rawText, "\n")
	cm.Subject = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		cm.parseBodyAndFooter(lines[1:])
	}
}

// parseBodyAndFooter parses the body and footer sections.
func (cm *CommitMessage) parseBodyAndFooter(lines []string) {
	var bodyLines, footerLines []string
	inFooter := false

	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if isFooterLine(trimmedLine) {
			inFooter = true
		}
		if inFooter {
			footerLines = append(footerLines, line)
		} else {
			bodyLines = append(bodyLines, line)
		}
	}

	cm.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	cm.Footer = strings.TrimSpace(strings.Join(footerLines, "\n"))
}

var footerPrefixes = []string{
	"BREAKING CHANGE:",
	"BREAKING-CHANGE:",
	"Refs:",
	"Closes:",
	"Fixes:",
	"Resolves:",
	"See:",
	"Co-authored-by:",
	"Signed-off-by:",
	"Reviewed-by:",
	"Acked-by:",
}

// isFooterLine checks if a line is a footer line.
func isFooterLine(line string) bool {
	upperLine := strings.ToUpper(line)
	for _, prefix := range footerPrefixes {
		if strings.HasPrefix(upperLine, strings.ToUpper(prefix)) {
			return true
		}
	}
	return false
}

// Format returns the full message with blank lines between parts.
func (cm *CommitMessage) Format() string {
	parts := []string{cm.Subject}
	if cm.Body != "" {
		parts = append(parts, "", cm.Body)
	}
	if cm.Footer != "" {
		parts = append(parts, "", cm.Footer)
	}
	return strings.Join(parts, "\n")
}

// Warnings lists style problems worth showing before the user confirms.
func (cm *CommitMessage) Warnings() []string {
	var warnings []string
	if n := len([]rune(cm.Subject)); n > MaxSubjectLength {
		warnings = append(warnings, fmt.Sprintf("subject line exceeds %d characters (%d chars)", MaxSubjectLength, n))
	}
	if strings.HasSuffix(cm.Subject, ".") {
		warnings = append(warnings, "subject line ends with a period")
	}
	return warnings
}
