package ai

import (
	"fmt"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/chacha/chacha/internal/pkg/git"
)

// System prompts for each command.
const (
	ExplainSystemPrompt = `You are a senior engineer helping a colleague understand unfamiliar material.
Explain what the content does, how it is structured and anything surprising.
Be concise and use short paragraphs or bullet points.`

	FixSystemPrompt = `You are a meticulous senior engineer reviewing code.
List concrete bugs, risky constructs and improvements, most important first.
Show corrected snippets where they help. Do not rewrite the whole file unless it is short.`

	CommitMessageSystemPrompt = `You write concise git commit messages.
Reply with the commit message only, without quotes or code fences.
First line: imperative mood, at most 72 characters, no trailing period.
Optionally add a blank line followed by a short body explaining what and why.`

	CommitExplainSystemPrompt = `You are a senior engineer. Explain this Git commit for a code review summary.`
)

// User prompt templates. Tags use {{name}} and are filled by fasttemplate.
const (
	explainTemplate = "Explain this code:\n\n{{content}}"

	fixTemplate = "Suggest fixes and improvements for this code:\n\n{{content}}"

	commitMessageTemplate = `Write a concise commit message for these staged changes.

Files:
{{files}}

Diff:
{{diff}}`

	commitExplainTemplate = `Please produce (<=500 words):
- TL;DR (1-2 sentences)
- Key changes (bulleted)
- Potential risks or regressions
- Tests to add or update

Commit Metadata:
- SHA: {{sha}}
- Author: {{author}}
- Date: {{date}}
- Subject: {{subject}}{{body}}

Files Changed:
{{files}}

Stats:
{{stats}}

Unified Diff (trimmed, may be truncated):
` + "```diff\n{{patch}}\n```"
)

// maxFilesListed caps the file list in commit prompts.
const maxFilesListed = 50

func render(tmpl string, values map[string]interface{}) string {
	return fasttemplate.ExecuteString(tmpl, "{{", "}}", values)
}

// ExplainRequest builds the request for explaining a file.
func ExplainRequest(content string) CompletionRequest {
	return CompletionRequest{
		SystemPrompt: ExplainSystemPrompt,
		UserContent:  render(explainTemplate, map[string]interface{}{"content": content}),
	}
}

// FixRequest builds the request for suggesting fixes to a file.
func FixRequest(content string) CompletionRequest {
	return CompletionRequest{
		SystemPrompt: FixSystemPrompt,
		UserContent:  render(fixTemplate, map[string]interface{}{"content": content}),
	}
}

// CommitMessageRequest builds the request for a commit message from the
// staged diff and the selected files.
func CommitMessageRequest(diff string, files []string) CompletionRequest {
	return CompletionRequest{
		SystemPrompt: CommitMessageSystemPrompt,
		UserContent: render(commitMessageTemplate, map[string]interface{}{
			"files": listFiles(files),
			"diff":  orPlaceholder(diff, "(empty diff)"),
		}),
	}
}

// CommitExplainRequest builds the request for explaining one commit.
func CommitExplainRequest(commit git.CommitInfo, patch string) CompletionRequest {
	body := ""
	if b := strings.TrimSpace(commit.Body()); b != "" {
		body = "\n- Body:\n" + b
	}

	names := make([]string, 0, len(commit.Files))
	for _, f := range commit.Files {
		names = append(names, f.Path)
	}

	return CompletionRequest{
		SystemPrompt: CommitExplainSystemPrompt,
		UserContent: render(commitExplainTemplate, map[string]interface{}{
			"sha":     commit.Hash,
			"author":  orPlaceholder(commit.Author, "(unknown)"),
			"date":    formatDate(commit),
			"subject": commit.Subject(),
			"body":    body,
			"files":   orPlaceholder(listFiles(names), "(none listed)"),
			"stats":   orPlaceholder(formatStats(commit.Files), "(no stats)"),
			"patch":   orPlaceholder(patch, "(no patch)"),
		}),
	}
}

func listFiles(files []string) string {
	if len(files) == 0 {
		return ""
	}
	shown := files
	if len(shown) > maxFilesListed {
		shown = shown[:maxFilesListed]
	}
	lines := make([]string, 0, len(shown)+1)
	for _, f := range shown {
		lines = append(lines, "- "+f)
	}
	if len(files) > maxFilesListed {
		lines = append(lines, fmt.Sprintf("… (+%d more)", len(files)-maxFilesListed))
	}
	return strings.Join(lines, "\n")
}

func formatStats(files []git.FileStat) string {
	if len(files) == 0 {
		return ""
	}
	var sb strings.Builder
	adds, dels := 0, 0
	for _, f := range files {
		fmt.Fprintf(&sb, " %s | +%d -%d\n", f.Path, f.Additions, f.Deletions)
		adds += f.Additions
		dels += f.Deletions
	}
	fmt.Fprintf(&sb, " %d files changed, %d insertions(+), %d deletions(-)", len(files), adds, dels)
	return sb.String()
}

func formatDate(commit git.CommitInfo) string {
	if commit.Date.IsZero() {
		return "(unknown)"
	}
	return commit.Date.Format("2006-01-02 15:04:05 -0700")
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
