// Package git provides the repository operations chacha needs.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

const (
	// GitCommandTimeout is the default timeout for git commands.
	GitCommandTimeout = 10 * time.Second

	// PushTimeout bounds git push, which talks to the network.
	PushTimeout = 60 * time.Second

	// DefaultRemote is the remote pushed to unless configured otherwise.
	DefaultRemote = "origin"
)

// FileStat holds line counts for one file touched by a commit.
type FileStat struct {
	Path      string
	Additions int
	Deletions int
}

// CommitInfo describes one commit.
type CommitInfo struct {
	Hash    string
	Message string
	Author  string
	Date    time.Time
	// Diff and Files are filled by LastNCommits, or by the caller after
	// DiffForCommit.
	Diff  string
	Files []FileStat
}

// ShortHash returns the first 12 characters of the hash.
func (c CommitInfo) ShortHash() string {
	if len(c.Hash) > 12 {
		return c.Hash[:12]
	}
	return c.Hash
}

// Subject returns the first line of the message.
func (c CommitInfo) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(subject)
}

// Body returns the message without its subject line.
func (c CommitInfo) Body() string {
	_, body, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(body)
}

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// Client is everything the commands need from the repository. All
// mutation goes through it.
type Client interface {
	ListChangedFiles(ctx context.Context) ([]string, error)
	StageFiles(ctx context.Context, paths []string) error
	DiffStaged(ctx context.Context) (string, error)
	ResolveCommit(ctx context.Context, ref string) (CommitInfo, error)
	DiffForCommit(ctx context.Context, ref string) (string, error)
	LastNCommits(ctx context.Context, n int) ([]CommitInfo, error)
	Commit(ctx context.Context, message string) (string, error)
	CurrentBranch(ctx context.Context) (string, error)
	Push(ctx context.Context, branch string) error
}

// DefaultClient runs the git binary for working tree changes and reads
// history with go-git.
type DefaultClient struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
	remote  string

	// root is the top of the working tree, resolved on first use. Paths
	// from git status are relative to it.
	rootMu sync.Mutex
	root   string
}

// NewClient creates a new DefaultClient.
func NewClient() *DefaultClient {
	return &DefaultClient{remote: DefaultRemote}
}

// NewClientWithWorkDir creates a new DefaultClient with a specific working directory.
func NewClientWithWorkDir(workDir string) *DefaultClient {
	return &DefaultClient{workDir: workDir, remote: DefaultRemote}
}

// SetRemote changes the remote used by Push. An empty name is ignored.
func (c *DefaultClient) SetRemote(name string) {
	if name = strings.TrimSpace(name); name != "" {
		c.remote = name
	}
}

// run executes git in the working directory and returns stdout.
func (c *DefaultClient) run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	return c.runIn(ctx, c.workDir, timeout, args...)
}

// runAtRoot executes git at the top of the working tree, so root-relative
// paths from git status resolve the same from any subdirectory.
func (c *DefaultClient) runAtRoot(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	root, err := c.repoRoot(ctx)
	if err != nil {
		return "", err
	}
	return c.runIn(ctx, root, timeout, args...)
}

// repoRoot runs git rev-parse --show-toplevel once per client.
func (c *DefaultClient) repoRoot(ctx context.Context) (string, error) {
	c.rootMu.Lock()
	defer c.rootMu.Unlock()
	if c.root != "" {
		return c.root, nil
	}
	output, err := c.run(ctx, GitCommandTimeout, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	c.root = strings.TrimSpace(output)
	return c.root, nil
}

// runIn executes git in dir and returns stdout. Failures carry the first
// line of git's output.
func (c *DefaultClient) runIn(ctx context.Context, dir string, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	apperrors.LogGitCommand(args, time.Since(start), err)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.NewGitError(fmt.Errorf("git %s timed out after %v", args[0], timeout), "")
		}
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		cause := err
		if line := firstLine(output); line != "" {
			cause = fmt.Errorf("%s (%w)", line, err)
		}
		return stdout.String(), apperrors.NewGitError(cause, output)
	}
	return stdout.String(), nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

// ListChangedFiles returns modified, deleted and untracked paths relative
// to the repository root, in the order git status reports them.
func (c *DefaultClient) ListChangedFiles(ctx context.Context) ([]string, error) {
	output, err := c.runAtRoot(ctx, GitCommandTimeout, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	if err != nil {
		return nil, err
	}
	return parsePorcelain(output), nil
}

// parsePorcelain parses NUL separated "XY path" records. Renames and copies
// are followed by an extra record holding the source path.
func parsePorcelain(output string) []string {
	records := strings.Split(output, "\x00")
	seen := make(map[string]bool, len(records))
	var files []string
	for i := 0; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}
		status, path := record[:2], record[3:]
		if status[0] == 'R' || status[0] == 'C' {
			i++
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	return files
}

// StageFiles stages exactly the given root-relative paths. Deleted paths
// stage the removal.
func (c *DefaultClient) StageFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--all", "--"}, paths...)
	if _, err := c.runAtRoot(ctx, GitCommandTimeout, args...); err != nil {
		return apperrors.NewStageFailedError(err)
	}
	return nil
}

// DiffStaged returns the unified diff of the index against HEAD.
func (c *DefaultClient) DiffStaged(ctx context.Context) (string, error) {
	return c.runAtRoot(ctx, GitCommandTimeout, "diff", "--cached", "--no-color", "--no-ext-diff")
}

// Commit records the index with message and returns the new commit hash.
// Once git commit succeeds a hash is always returned: the full one from
// rev-parse, or the abbreviated one git commit printed.
func (c *DefaultClient) Commit(ctx context.Context, message string) (string, error) {
	output, err := c.runAtRoot(ctx, GitCommandTimeout, "commit", "-m", message)
	if err != nil {
		return "", apperrors.NewCommitFailedError(err)
	}
	hash, err := c.runAtRoot(ctx, GitCommandTimeout, "rev-parse", "HEAD")
	if err == nil {
		return strings.TrimSpace(hash), nil
	}
	if short := parseCommitHash(output); short != "" {
		apperrors.Warn("could not resolve HEAD after committing, using %s: %v", short, err)
		return short, nil
	}
	return "", apperrors.Wrap(err, apperrors.ErrCommitFailed,
		"git commit succeeded but the new commit could not be resolved").
		WithSuggestion("Run 'git log -1' to find the commit before retrying")
}

// commitSummary matches the first line of git commit output, e.g.
// "[main (root-commit) 1a2b3c4] subject".
var commitSummary = regexp.MustCompile(`^\[[^\]]*?([0-9a-f]{7,64})\]`)

// parseCommitHash returns the abbreviated hash from git commit output.
func parseCommitHash(output string) string {
	m := commitSummary.FindStringSubmatch(firstLine(output))
	if m == nil {
		return ""
	}
	return m[1]
}

// CurrentBranch returns the checked out branch. It works before the first
// commit and fails on a detached HEAD.
func (c *DefaultClient) CurrentBranch(ctx context.Context) (string, error) {
	output, err := c.run(ctx, GitCommandTimeout, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		if appErr := apperrors.GetAppError(err); appErr != nil {
			appErr.WithSuggestion("HEAD is detached; pass --branch to choose where to push")
		}
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Push sends HEAD to branch on the configured remote and sets it as upstream.
func (c *DefaultClient) Push(ctx context.Context, branch string) error {
	remote := c.remote
	if remote == "" {
		remote = DefaultRemote
	}
	if _, err := c.runAtRoot(ctx, PushTimeout, "push", "-u", remote, "HEAD:refs/heads/"+branch); err != nil {
		return apperrors.Wrap(err, apperrors.ErrPushFailed, fmt.Sprintf("push to %s/%s failed", remote, branch))
	}
	return nil
}
