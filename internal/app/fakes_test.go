package app

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/chacha/chacha/internal/pkg/ai"
	"github.com/chacha/chacha/internal/pkg/git"
	"github.com/chacha/chacha/internal/pkg/history"
	"github.com/chacha/chacha/internal/pkg/ui"
)

// MockAIClient is a mock implementation of ai.Client
type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) Complete(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ai.CompletionResult), args.Error(1)
}

func (m *MockAIClient) Name() string {
	args := m.Called()
	return args.String(0)
}

func newMockAI(name string) *MockAIClient {
	m := &MockAIClient{}
	m.On("Name").Return(name).Maybe()
	return m
}

// countingClient answers every request with the same text.
type countingClient struct {
	name  string
	text  string
	calls int
}

func (c *countingClient) Complete(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResult, error) {
	c.calls++
	return ai.CompletionResult{Text: c.text}, nil
}

func (c *countingClient) Name() string { return c.name }

func factoryFor(client ai.Client) ClientFactory {
	return func() (ai.Client, error) { return client, nil }
}

func factoryErr(err error) ClientFactory {
	return func() (ai.Client, error) { return nil, err }
}

// failingFactory fails the test when a provider is resolved at all.
func failingFactory(t *testing.T) ClientFactory {
	return func() (ai.Client, error) {
		t.Fatal("provider must not be resolved")
		return nil, nil
	}
}

// scriptedPrompter answers prompts from a script and logs each call.
type scriptedPrompter struct {
	selection []string
	confirm   bool
	log       *[]string

	selectCalls  int
	confirmCalls int
}

func (p *scriptedPrompter) PromptMultiSelect(title string, options []string) ([]string, error) {
	p.selectCalls++
	if p.log != nil {
		*p.log = append(*p.log, "select")
	}
	return p.selection, nil
}

func (p *scriptedPrompter) PromptConfirm(message string) (bool, error) {
	p.confirmCalls++
	if p.log != nil {
		*p.log = append(*p.log, "confirm")
	}
	return p.confirm, nil
}

var _ ui.Prompter = (*scriptedPrompter)(nil)

// fakeRepo is an in-memory git.Client that keeps enough state to check
// what a flow left behind.
type fakeRepo struct {
	branch  string
	changed []string
	staged  []string
	commits []git.CommitInfo
	pushed  []string
	log     *[]string

	commitErr error
	pushErr   error
}

func newFakeRepo(changed ...string) *fakeRepo {
	return &fakeRepo{branch: "main", changed: changed, log: &[]string{}}
}

func (r *fakeRepo) ListChangedFiles(ctx context.Context) ([]string, error) {
	return r.changed, nil
}

func (r *fakeRepo) StageFiles(ctx context.Context, paths []string) error {
	*r.log = append(*r.log, fmt.Sprintf("stage:%v", paths))
	r.staged = append(r.staged, paths...)
	return nil
}

func (r *fakeRepo) DiffStaged(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	for _, p := range r.staged {
		fmt.Fprintf(&buf, "diff --git a/%s b/%s\n--- a/%s\n+++ b/%s\n@@ -0,0 +1 @@\n+change to %s\n", p, p, p, p, p)
	}
	return buf.String(), nil
}

func (r *fakeRepo) ResolveCommit(ctx context.Context, ref string) (git.CommitInfo, error) {
	for _, c := range r.commits {
		if c.Hash == ref {
			return c, nil
		}
	}
	if ref == "HEAD" && len(r.commits) > 0 {
		return r.commits[len(r.commits)-1], nil
	}
	return git.CommitInfo{}, fmt.Errorf("unknown ref %s", ref)
}

func (r *fakeRepo) DiffForCommit(ctx context.Context, ref string) (string, error) {
	c, err := r.ResolveCommit(ctx, ref)
	return c.Diff, err
}

func (r *fakeRepo) LastNCommits(ctx context.Context, n int) ([]git.CommitInfo, error) {
	var out []git.CommitInfo
	for i := len(r.commits) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.commits[i])
	}
	return out, nil
}

func (r *fakeRepo) Commit(ctx context.Context, message string) (string, error) {
	*r.log = append(*r.log, "commit")
	if r.commitErr != nil {
		return "", r.commitErr
	}
	hash := fmt.Sprintf("%040d", len(r.commits)+1)
	r.commits = append(r.commits, git.CommitInfo{
		Hash:    hash,
		Message: message,
		Author:  "Test <test@example.com>",
		Date:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	r.staged = nil
	return hash, nil
}

func (r *fakeRepo) CurrentBranch(ctx context.Context) (string, error) {
	return r.branch, nil
}

func (r *fakeRepo) Push(ctx context.Context, branch string) error {
	*r.log = append(*r.log, "push:"+branch)
	if r.pushErr != nil {
		return r.pushErr
	}
	r.pushed = append(r.pushed, branch)
	return nil
}

var _ git.Client = (*fakeRepo)(nil)

// recordingHistory keeps saved entries in memory.
type recordingHistory struct {
	entries []*history.Entry
}

func (h *recordingHistory) Save(entry *history.Entry) error {
	h.entries = append(h.entries, entry)
	return nil
}

// newTestUI returns a non-interactive manager and its stdout and stderr.
func newTestUI() (ui.Manager, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return ui.NewManagerWithWriters(&out, &errOut), &out, &errOut
}
