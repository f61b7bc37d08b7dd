package ai

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chacha/chacha/internal/pkg/git"
)

func TestExplainRequest(t *testing.T) {
	req := ExplainRequest("func main() {}")

	if req.SystemPrompt != ExplainSystemPrompt {
		t.Error("ExplainRequest should use the explain system prompt")
	}
	if req.UserContent != "Explain this code:\n\nfunc main() {}" {
		t.Errorf("UserContent = %q", req.UserContent)
	}
}

func TestFixRequest(t *testing.T) {
	req := FixRequest("x := 1")

	if req.SystemPrompt != FixSystemPrompt {
		t.Error("FixRequest should use the fix system prompt")
	}
	if !strings.HasPrefix(req.UserContent, "Suggest fixes and improvements for this code:\n\n") {
		t.Errorf("UserContent = %q", req.UserContent)
	}
	if !strings.HasSuffix(req.UserContent, "x := 1") {
		t.Error("UserContent should end with the file content")
	}
}

func TestRequests_ContentWithTemplateTags(t *testing.T) {
	content := "tmpl := \"{{content}} and {{diff}}\""
	req := ExplainRequest(content)
	if !strings.HasSuffix(req.UserContent, content) {
		t.Errorf("content should be inserted verbatim, got %q", req.UserContent)
	}
}

func TestCommitMessageRequest(t *testing.T) {
	req := CommitMessageRequest("+new line", []string{"a.go", "b/c.go"})

	if req.SystemPrompt != CommitMessageSystemPrompt {
		t.Error("CommitMessageRequest should use the commit message system prompt")
	}
	for _, want := range []string{"- a.go\n- b/c.go", "Diff:\n+new line"} {
		if !strings.Contains(req.UserContent, want) {
			t.Errorf("UserContent should contain %q, got %q", want, req.UserContent)
		}
	}

	empty := CommitMessageRequest("  ", nil)
	if !strings.Contains(empty.UserContent, "(empty diff)") {
		t.Error("an empty diff should be marked")
	}
}

func TestCommitExplainRequest(t *testing.T) {
	commit := git.CommitInfo{
		Hash:    "0123456789abcdef0123456789abcdef01234567",
		Message: "Fix parser\n\nHandles empty input.",
		Author:  "Dev <dev@example.com>",
		Date:    time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Files: []git.FileStat{
			{Path: "parser.go", Additions: 10, Deletions: 2},
			{Path: "parser_test.go", Additions: 5},
		},
	}

	req := CommitExplainRequest(commit, "diff --git a/parser.go b/parser.go")

	if req.SystemPrompt != CommitExplainSystemPrompt {
		t.Error("CommitExplainRequest should use the commit explain system prompt")
	}
	for _, want := range []string{
		"TL;DR",
		"- SHA: 0123456789abcdef0123456789abcdef01234567",
		"- Author: Dev <dev@example.com>",
		"- Date: 2024-03-01 12:30:00 +0000",
		"- Subject: Fix parser\n- Body:\nHandles empty input.",
		"- parser.go\n- parser_test.go",
		" parser.go | +10 -2",
		" 2 files changed, 15 insertions(+), 2 deletions(-)",
		"```diff\ndiff --git a/parser.go b/parser.go\n```",
	} {
		if !strings.Contains(req.UserContent, want) {
			t.Errorf("UserContent should contain %q\n%s", want, req.UserContent)
		}
	}
}

func TestCommitExplainRequest_Placeholders(t *testing.T) {
	req := CommitExplainRequest(git.CommitInfo{Hash: "abc", Message: "Subject only"}, "")

	for _, want := range []string{"- Subject: Subject only\n\nFiles Changed:", "(unknown)", "(none listed)", "(no stats)", "(no patch)"} {
		if !strings.Contains(req.UserContent, want) {
			t.Errorf("UserContent should contain %q\n%s", want, req.UserContent)
		}
	}
}

func TestListFiles_Capped(t *testing.T) {
	files := make([]string, maxFilesListed+7)
	for i := range files {
		files[i] = fmt.Sprintf("f%d.go", i)
	}

	listed := listFiles(files)
	if got := strings.Count(listed, "\n- ") + 1; got != maxFilesListed {
		t.Errorf("listed %d files, want %d", got, maxFilesListed)
	}
	if !strings.HasSuffix(listed, "… (+7 more)") {
		t.Errorf("list should end with the overflow count, got %q", listed[len(listed)-20:])
	}
}
