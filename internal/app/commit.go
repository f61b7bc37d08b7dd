package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/chacha/chacha/internal/pkg/ai"
	"github.com/chacha/chacha/internal/pkg/config"
	apperrors "github.com/chacha/chacha/internal/pkg/errors"
	"github.com/chacha/chacha/internal/pkg/git"
	"github.com/chacha/chacha/internal/pkg/history"
	"github.com/chacha/chacha/internal/pkg/message"
	"github.com/chacha/chacha/internal/pkg/processor"
	"github.com/chacha/chacha/internal/pkg/ui"
)

// CommitMessageTitle is the box title of a proposed commit message.
const CommitMessageTitle = "Chacha — Commit Message"

// NothingToCommit is shown when there is nothing to select or stage.
const NothingToCommit = "nothing to commit"

// CommitState is a step of the commit flow.
type CommitState int

const (
	StateSelect CommitState = iota
	StateGenerateMessage
	StateConfirm
	StateCommitAndPush
	StateDone
	StateCancelled
)

// String returns the state name.
func (s CommitState) String() string {
	switch s {
	case StateSelect:
		return "SELECT"
	case StateGenerateMessage:
		return "GENERATE_MESSAGE"
	case StateConfirm:
		return "CONFIRM"
	case StateCommitAndPush:
		return "COMMIT_AND_PUSH"
	case StateDone:
		return "DONE"
	case StateCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// CommitOptions contains options for the commit workflow.
type CommitOptions struct {
	// Auto selects every changed file without prompting.
	Auto bool
	// Yes skips the confirmation prompt.
	Yes bool
	// Branch overrides the push target. Empty means the current branch.
	Branch string
}

// CommitPlan is what one run of the flow decided and did.
type CommitPlan struct {
	State     CommitState
	Changed   []string
	Chosen    []string
	Message   string
	Branch    string
	Confirmed bool
	Hash      string
}

// CommitFlow runs commit run: SELECT, GENERATE_MESSAGE, CONFIRM and
// COMMIT_AND_PUSH, ending in DONE or CANCELLED.
type CommitFlow struct {
	newClient     ClientFactory
	gitClient     git.Client
	prompter      ui.Prompter
	uiManager     ui.Manager
	diffProcessor processor.DiffProcessor
	history       history.Recorder
	config        *config.Config
	env           config.Env
}

// NewCommitFlow creates a CommitFlow with the given dependencies. A nil
// recorder disables history.
func NewCommitFlow(
	newClient ClientFactory,
	gitClient git.Client,
	prompter ui.Prompter,
	uiManager ui.Manager,
	diffProcessor processor.DiffProcessor,
	recorder history.Recorder,
	cfg *config.Config,
	env config.Env,
) *CommitFlow {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if diffProcessor == nil {
		diffProcessor = processor.NewProcessor()
	}
	if recorder == nil {
		recorder = history.Nop{}
	}
	return &CommitFlow{
		newClient:     newClient,
		gitClient:     gitClient,
		prompter:      prompter,
		uiManager:     uiManager,
		diffProcessor: diffProcessor,
		history:       recorder,
		config:        cfg,
		env:           env,
	}
}

// Run drives the flow to DONE or CANCELLED. The returned plan is never nil
// and records how far the flow got, also when an error is returned.
func (f *CommitFlow) Run(ctx context.Context, opts CommitOptions) (*CommitPlan, error) {
	plan := &CommitPlan{State: StateSelect}

	// SELECT
	changed, err := f.gitClient.ListChangedFiles(ctx)
	if err != nil {
		return plan, err
	}
	plan.Changed = changed
	if len(changed) == 0 {
		return f.nothingToCommit(plan), nil
	}

	if opts.Auto {
		plan.Chosen = changed
	} else {
		chosen, err := f.prompter.PromptMultiSelect("Select files to commit", changed)
		if err != nil {
			return plan, err
		}
		plan.Chosen = chosen
	}
	if len(plan.Chosen) == 0 {
		return f.nothingToCommit(plan), nil
	}

	// GENERATE_MESSAGE
	plan.State = StateGenerateMessage
	client, err := f.newClient()
	if err != nil {
		return plan, err
	}

	if err := f.gitClient.StageFiles(ctx, plan.Chosen); err != nil {
		return plan, err
	}
	diff, err := f.gitClient.DiffStaged(ctx)
	if err != nil {
		return plan, err
	}
	if strings.TrimSpace(diff) == "" {
		return f.nothingToCommit(plan), nil
	}

	msg, err := f.generateMessage(ctx, client, diff, plan.Chosen)
	if err != nil {
		return plan, err
	}
	plan.Message = msg

	// CONFIRM
	plan.State = StateConfirm
	plan.Branch = opts.Branch
	if plan.Branch == "" {
		if plan.Branch, err = f.gitClient.CurrentBranch(ctx); err != nil {
			return plan, err
		}
	}

	subtitle := fmt.Sprintf("Provider: %s • Branch: %s • Files: %d", client.Name(), plan.Branch, len(plan.Chosen))
	f.uiManager.PrintBox(CommitMessageTitle, subtitle, plan.Message)
	for _, w := range message.NewCommitMessage(plan.Message).Warnings() {
		f.uiManager.ShowNotice("warning: " + w)
	}

	plan.Confirmed = opts.Yes
	if !opts.Yes {
		ok, err := f.prompter.PromptConfirm(fmt.Sprintf("Commit and push to %s?", plan.Branch))
		if err != nil {
			return plan, err
		}
		plan.Confirmed = ok
	}
	if !plan.Confirmed {
		plan.State = StateCancelled
		f.uiManager.ShowNotice("commit cancelled; staged changes were kept")
		f.record(plan, history.StatusCancelled, client.Name())
		return plan, nil
	}

	// COMMIT_AND_PUSH
	plan.State = StateCommitAndPush
	hash, err := f.gitClient.Commit(ctx, plan.Message)
	if err != nil {
		if !apperrors.HasCode(err, apperrors.ErrCommitFailed) {
			err = apperrors.NewCommitFailedError(err)
		}
		return plan, err
	}
	plan.Hash = hash

	if err := f.gitClient.Push(ctx, plan.Branch); err != nil {
		f.record(plan, history.StatusPushFailed, client.Name())
		return plan, apperrors.NewPushFailedError(hash, f.remote(), plan.Branch, err)
	}

	plan.State = StateDone
	f.record(plan, history.StatusCompleted, client.Name())
	f.uiManager.ShowSuccess(fmt.Sprintf("Committed %s and pushed to %s", shortHash(hash), plan.Branch))
	return plan, nil
}

// remote is the push remote named in messages.
func (f *CommitFlow) remote() string {
	if f.config.Git.Remote != "" {
		return f.config.Git.Remote
	}
	return git.DefaultRemote
}

func (f *CommitFlow) nothingToCommit(plan *CommitPlan) *CommitPlan {
	plan.State = StateDone
	f.uiManager.ShowNotice(NothingToCommit)
	return plan
}

func (f *CommitFlow) generateMessage(ctx context.Context, client ai.Client, diff string, files []string) (string, error) {
	processed := f.diffProcessor.Process(git.ParseDiff(diff))
	if processed.Summarized {
		apperrors.Debug("staged diff of %d bytes summarized for the prompt", processed.TotalSize)
	}
	text := processed.Text()
	warnSecrets(f.uiManager, "the staged diff", text)

	req := applyBudget(ai.CommitMessageRequest(text, files), promptBytes(f.env, f.config))

	spinner := f.uiManager.ShowSpinner("Writing commit message...")
	spinner.Start()
	result, err := client.Complete(ctx, req)
	spinner.Stop()
	if err != nil {
		return "", err
	}

	return message.Clean(client.Name(), result.Text)
}

func (f *CommitFlow) record(plan *CommitPlan, status history.Status, provider string) {
	entry := &history.Entry{
		Status:   status,
		Message:  plan.Message,
		Files:    plan.Chosen,
		Branch:   plan.Branch,
		Hash:     plan.Hash,
		Provider: provider,
	}
	if err := f.history.Save(entry); err != nil {
		apperrors.Warn("failed to save history: %v", err)
	}
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
