// Package app contains the command orchestration logic.
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/chacha/chacha/internal/pkg/ai"
	"github.com/chacha/chacha/internal/pkg/config"
	apperrors "github.com/chacha/chacha/internal/pkg/errors"
	"github.com/chacha/chacha/internal/pkg/extract"
	"github.com/chacha/chacha/internal/pkg/git"
	"github.com/chacha/chacha/internal/pkg/processor"
	"github.com/chacha/chacha/internal/pkg/security"
	"github.com/chacha/chacha/internal/pkg/ui"
)

// Box titles.
const (
	ExplainTitle       = "Chacha — Explanation"
	FixTitle           = "Chacha — Suggested Fixes"
	CommitExplainTitle = "Chacha — Commit Explanation"
)

// MaxExplanationWords caps a commit explanation.
const MaxExplanationWords = 500

// ClientFactory resolves and builds the provider client for one command.
type ClientFactory func() (ai.Client, error)

// DefaultClientFactory resolves the provider from env, applies cfg and an
// optional model override, and wraps the client with cfg's retry policy.
func DefaultClientFactory(env config.Env, cfg *config.Config, model string) ClientFactory {
	return func() (ai.Client, error) {
		pc, err := ai.Resolve(env)
		if err != nil {
			return nil, err
		}
		pc = pc.WithSettings(cfg)
		if model != "" {
			pc.Model = model
		}
		client, err := ai.NewClient(pc)
		if err != nil {
			return nil, err
		}
		retries := 0
		if cfg != nil {
			retries = cfg.Request.Retries
		}
		return ai.WithRetry(client, retries), nil
	}
}

// FileExtractor turns a path into text.
type FileExtractor interface {
	Extract(path string) (extract.FileArtifact, error)
}

// Orchestrator runs explain, fix and explain-commit.
type Orchestrator struct {
	newClient ClientFactory
	extractor FileExtractor
	gitClient git.Client
	uiManager ui.Manager
	config    *config.Config
	env       config.Env
}

// NewOrchestrator creates an Orchestrator with the given dependencies.
func NewOrchestrator(
	newClient ClientFactory,
	extractor FileExtractor,
	gitClient git.Client,
	uiManager ui.Manager,
	cfg *config.Config,
	env config.Env,
) *Orchestrator {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Orchestrator{
		newClient: newClient,
		extractor: extractor,
		gitClient: gitClient,
		uiManager: uiManager,
		config:    cfg,
		env:       env,
	}
}

// Explain prints an explanation of the file at path.
func (o *Orchestrator) Explain(ctx context.Context, path string) error {
	return o.describeFile(ctx, path, ExplainTitle, ai.ExplainRequest)
}

// Fix prints suggested fixes for the file at path. The file is never modified.
func (o *Orchestrator) Fix(ctx context.Context, path string) error {
	return o.describeFile(ctx, path, FixTitle, ai.FixRequest)
}

func (o *Orchestrator) describeFile(ctx context.Context, path, title string, build func(string) ai.CompletionRequest) error {
	artifact, err := o.extractor.Extract(path)
	if err != nil {
		return err
	}
	warnSecrets(o.uiManager, path, artifact.Text)

	req := build(artifact.Text)

	client, err := o.newClient()
	if err != nil {
		return err
	}

	result, err := o.complete(ctx, client, req, "Thinking...")
	if err != nil {
		return err
	}

	subtitle := fmt.Sprintf("Provider: %s • File: %s", client.Name(), path)
	o.uiManager.PrintBox(title, subtitle, result.Text)
	return nil
}

// ExplainCommitOptions selects the commits to explain. At most one of
// Target, Spec and Count may be set; none means HEAD.
type ExplainCommitOptions struct {
	Target string
	Spec   bool
	// CountSet distinguishes -c 0 from no -c at all.
	CountSet bool
	Count    int
}

// Validate rejects combined modes and a non-positive count.
func (opts ExplainCommitOptions) Validate() error {
	modes := 0
	if opts.Target != "" {
		modes++
	}
	if opts.Spec {
		modes++
	}
	if opts.CountSet {
		modes++
	}
	if modes > 1 {
		return apperrors.NewUsageError("TARGET, --spec and -c are mutually exclusive").
			WithSuggestion("Pass only one of them")
	}
	if opts.CountSet && opts.Count <= 0 {
		return apperrors.NewUsageError(fmt.Sprintf("-c must be at least 1, got %d", opts.Count))
	}
	return nil
}

// ExplainCommit prints one explanation per selected commit.
func (o *Orchestrator) ExplainCommit(ctx context.Context, opts ExplainCommitOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	commits, err := o.selectCommits(ctx, opts)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		o.uiManager.ShowNotice("no commits to explain")
		return nil
	}

	client, err := o.newClient()
	if err != nil {
		return err
	}

	if len(commits) == 1 {
		return o.explainOne(ctx, client, commits[0], true)
	}

	progress := o.uiManager.StartProgress(len(commits), "Explaining commits")
	defer progress.Finish()
	for _, commit := range commits {
		progress.Describe("Explaining " + commit.ShortHash())
		if err := o.explainOne(ctx, client, commit, false); err != nil {
			progress.Clear()
			return err
		}
		progress.Increment()
	}
	return nil
}

func (o *Orchestrator) selectCommits(ctx context.Context, opts ExplainCommitOptions) ([]git.CommitInfo, error) {
	if opts.CountSet {
		return o.gitClient.LastNCommits(ctx, opts.Count)
	}

	ref := "HEAD"
	if opts.Target != "" {
		ref = targetRef(opts.Target)
	}

	info, err := o.gitClient.ResolveCommit(ctx, ref)
	if err != nil {
		return nil, err
	}
	diff, err := o.gitClient.DiffForCommit(ctx, info.Hash)
	if err != nil {
		return nil, err
	}
	info.Diff = diff
	info.Files = git.FileStats(diff)
	return []git.CommitInfo{info}, nil
}

// targetRef maps a negative index to a HEAD-relative revision: -1 is HEAD,
// -2 is HEAD~1. Anything else is passed through.
func targetRef(target string) string {
	target = strings.TrimSpace(target)
	if !strings.HasPrefix(target, "-") {
		return target
	}
	n, err := strconv.Atoi(target)
	if err != nil || n >= 0 {
		return target
	}
	if n == -1 {
		return "HEAD"
	}
	return fmt.Sprintf("HEAD~%d", -n-1)
}

func (o *Orchestrator) explainOne(ctx context.Context, client ai.Client, commit git.CommitInfo, spin bool) error {
	patch, trimmed := processor.Trim(commit.Diff, o.config.Prompt.MaxPatchBytes)
	if trimmed {
		apperrors.Debug("patch of %s trimmed to %d bytes", commit.ShortHash(), o.config.Prompt.MaxPatchBytes)
	}
	warnSecrets(o.uiManager, commit.ShortHash(), patch)

	req := ai.CommitExplainRequest(commit, patch)

	var (
		result ai.CompletionResult
		err    error
	)
	if spin {
		result, err = o.complete(ctx, client, req, "Explaining "+commit.ShortHash()+"...")
	} else {
		result, err = client.Complete(ctx, o.budget(req))
	}
	if err != nil {
		return err
	}

	subtitle := fmt.Sprintf("Provider: %s • Commit: %s", client.Name(), commit.ShortHash())
	o.uiManager.PrintBox(CommitExplainTitle, subtitle, truncateWords(result.Text, MaxExplanationWords))
	return nil
}

// complete runs one provider call behind a spinner.
func (o *Orchestrator) complete(ctx context.Context, client ai.Client, req ai.CompletionRequest, label string) (ai.CompletionResult, error) {
	spinner := o.uiManager.ShowSpinner(label)
	spinner.Start()
	defer spinner.Stop()

	return client.Complete(ctx, o.budget(req))
}

// budget caps the user content at the configured prompt size.
func (o *Orchestrator) budget(req ai.CompletionRequest) ai.CompletionRequest {
	return applyBudget(req, o.maxPromptBytes())
}

func (o *Orchestrator) maxPromptBytes() int {
	return promptBytes(o.env, o.config)
}

func promptBytes(env config.Env, cfg *config.Config) int {
	tokens := env.MaxPromptTokens()
	if tokens == 0 && cfg != nil {
		tokens = cfg.Prompt.MaxTokens
	}
	return processor.TokensToBytes(tokens)
}

func applyBudget(req ai.CompletionRequest, maxBytes int) ai.CompletionRequest {
	content, trimmed := processor.Trim(req.UserContent, maxBytes)
	if trimmed {
		apperrors.Debug("prompt trimmed to %d bytes", maxBytes)
	}
	req.UserContent = content
	return req
}

func warnSecrets(m ui.Manager, source, text string) {
	if kinds := security.DetectSecrets(text); len(kinds) > 0 {
		m.ShowNotice(fmt.Sprintf("warning: %s appears to contain %s; it will be sent to the provider",
			source, strings.Join(kinds, ", ")))
	}
}

// truncateWords keeps the first max words of text, preserving its layout,
// and marks the cut with " …".
func truncateWords(text string, max int) string {
	words := 0
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			words++
			if words > max {
				return strings.TrimRightFunc(text[:i], unicode.IsSpace) + " …"
			}
		}
	}
	return text
}
