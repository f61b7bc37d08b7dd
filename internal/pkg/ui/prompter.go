package ui

import (
	"errors"

	"github.com/charmbracelet/huh"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

// Prompter asks the user questions. Commands receive it as a dependency so
// that tests can script the answers.
type Prompter interface {
	// PromptMultiSelect returns the chosen options in the order they were
	// offered. An aborted prompt yields an empty selection.
	PromptMultiSelect(title string, options []string) ([]string, error)
	// PromptConfirm returns false when the user declines or aborts.
	PromptConfirm(message string) (bool, error)
}

// HuhPrompter prompts on the terminal with huh forms.
type HuhPrompter struct {
	accessible bool
}

// NewHuhPrompter creates a terminal prompter. Accessible mode replaces the
// TUI with plain line prompts.
func NewHuhPrompter(accessible bool) *HuhPrompter {
	return &HuhPrompter{accessible: accessible}
}

// PromptMultiSelect shows a checklist of options.
func (p *HuhPrompter) PromptMultiSelect(title string, options []string) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}

	var chosen []string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Description("Space to toggle • Enter to confirm").
				Options(huh.NewOptions(options...)...).
				Value(&chosen),
		),
	).WithAccessible(p.accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}
	return inOfferedOrder(options, chosen), nil
}

// PromptConfirm asks a yes/no question. The default answer is yes.
func (p *HuhPrompter) PromptConfirm(message string) (bool, error) {
	confirmed := true
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithAccessible(p.accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

// inOfferedOrder filters options down to chosen, keeping option order.
func inOfferedOrder(options, chosen []string) []string {
	picked := make(map[string]bool, len(chosen))
	for _, c := range chosen {
		picked[c] = true
	}
	ordered := make([]string, 0, len(chosen))
	for _, o := range options {
		if picked[o] {
			ordered = append(ordered, o)
			delete(picked, o)
		}
	}
	return ordered
}

// NonInteractivePrompter is used when stdin is not a terminal. Every
// question fails with a usage error naming the flags that avoid it.
type NonInteractivePrompter struct{}

// PromptMultiSelect always fails.
func (NonInteractivePrompter) PromptMultiSelect(title string, options []string) ([]string, error) {
	return nil, apperrors.NewUsageError("cannot choose files without a terminal").
		WithSuggestion("Pass --auto to commit every changed file")
}

// PromptConfirm always fails.
func (NonInteractivePrompter) PromptConfirm(message string) (bool, error) {
	return false, apperrors.NewUsageError("cannot ask for confirmation without a terminal").
		WithSuggestion("Pass --yes to skip the confirmation")
}
