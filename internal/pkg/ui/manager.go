// Package ui provides terminal output and prompting for chacha.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

// Box width bounds, borders included.
const (
	DefaultBoxWidth = 100
	minBoxWidth     = 40
	maxBoxWidth     = 140
)

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
	UpdateText(text string)
}

// Progress tracks a fixed number of steps.
type Progress interface {
	Describe(label string)
	Increment()
	// Clear erases the bar so regular output can be printed.
	Clear()
	Finish()
}

// Manager defines the interface for UI output.
type Manager interface {
	RenderBox(title, subtitle, body string) string
	PrintBox(title, subtitle, body string)
	ShowSpinner(text string) Spinner
	StartProgress(total int, description string) Progress
	ShowError(err error)
	ShowSuccess(message string)
	ShowNotice(message string)
}

// DefaultManager writes results to out and transient feedback (spinners,
// progress, notices) to errOut.
type DefaultManager struct {
	out          io.Writer
	errOut       io.Writer
	colorEnabled bool
	interactive  bool
	width        int
	styles       *styles
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	title      lipgloss.Style
	subtitle   lipgloss.Style
	body       lipgloss.Style
	border     lipgloss.Style
	success    lipgloss.Style
	errorStyle lipgloss.Style
	info       lipgloss.Style
}

// NewDefaultManager creates a manager on stdout and stderr. Animations are
// enabled only when stderr is a terminal.
func NewDefaultManager(colorEnabled bool) *DefaultManager {
	interactive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	width := DefaultBoxWidth
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		width = w
	}
	m := newManager(os.Stdout, os.Stderr, colorEnabled && interactive, interactive, width)
	return m
}

// NewManagerWithWriters creates a non-interactive manager on the given
// writers, without color.
func NewManagerWithWriters(out, errOut io.Writer) *DefaultManager {
	return newManager(out, errOut, false, false, DefaultBoxWidth)
}

func newManager(out, errOut io.Writer, colorEnabled, interactive bool, width int) *DefaultManager {
	if width < minBoxWidth {
		width = minBoxWidth
	}
	if width > maxBoxWidth {
		width = maxBoxWidth
	}
	m := &DefaultManager{
		out:          out,
		errOut:       errOut,
		colorEnabled: colorEnabled,
		interactive:  interactive,
		width:        width,
	}
	m.initStyles()
	return m
}

// initStyles initializes the lipgloss styles.
func (m *DefaultManager) initStyles() {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	if !m.colorEnabled {
		m.styles = &styles{
			title:      lipgloss.NewStyle(),
			subtitle:   lipgloss.NewStyle(),
			body:       lipgloss.NewStyle(),
			border:     border,
			success:    lipgloss.NewStyle(),
			errorStyle: lipgloss.NewStyle(),
			info:       lipgloss.NewStyle(),
		}
		return
	}

	m.styles = &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true),
		body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		border: border.BorderForeground(lipgloss.Color("62")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
	}
}

// RenderBox draws body in a rounded box headed by title and subtitle.
// Lines inside fenced code blocks are never wrapped.
func (m *DefaultManager) RenderBox(title, subtitle, body string) string {
	// Border and padding take four columns.
	inner := m.width - 4

	var sb strings.Builder
	sb.WriteString(m.styles.title.Render(strings.TrimSpace(title)))
	if s := strings.TrimSpace(subtitle); s != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.subtitle.Render(s))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", inner))
	sb.WriteString("\n")
	sb.WriteString(m.styles.body.Render(wrapBody(strings.TrimRight(body, "\n"), inner)))

	return m.styles.border.Render(sb.String())
}

// wrapBody wraps prose to width and leaves fenced code untouched.
func wrapBody(body string, width int) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	inCode := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			out = append(out, line)
			continue
		}
		if inCode || lipgloss.Width(line) <= width {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(line) {
		if current.Len() > 0 && lipgloss.Width(current.String())+1+lipgloss.Width(word) > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// PrintBox writes a rendered box to the result output.
func (m *DefaultManager) PrintBox(title, subtitle, body string) {
	fmt.Fprintln(m.out, m.RenderBox(title, subtitle, body))
}

// ShowError displays an error message to the user.
func (m *DefaultManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(m.errOut, m.styles.errorStyle.Render(apperrors.FormatError(err)))
}

// ShowSuccess displays a success message to the user.
func (m *DefaultManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, m.styles.success.Render("[OK] "+message))
}

// ShowNotice displays an informational line.
func (m *DefaultManager) ShowNotice(message string) {
	fmt.Fprintln(m.errOut, m.styles.info.Render(message))
}

// ShowSpinner creates a spinner for the duration of a provider call.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	if !m.interactive {
		return noopSpinner{}
	}
	return newBubbleSpinner(text, m.errOut)
}

// StartProgress creates a progress bar for total steps.
func (m *DefaultManager) StartProgress(total int, description string) Progress {
	if !m.interactive || total < 2 {
		return noopProgress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(m.errOut),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(m.colorEnabled),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &barProgress{bar: bar}
}

// barProgress implements Progress using progressbar.
type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Describe(label string) { p.bar.Describe(label) }
func (p *barProgress) Increment()            { _ = p.bar.Add(1) }
func (p *barProgress) Clear()                { _ = p.bar.Clear() }
func (p *barProgress) Finish()               { _ = p.bar.Finish() }

// bubbleSpinner implements Spinner using Bubble Tea.
type bubbleSpinner struct {
	model   spinnerModel
	output  io.Writer
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
}

// spinnerModel is the Bubble Tea model for simple spinner.
type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

// spinnerTextMsg is sent to update spinner text from outside.
type spinnerTextMsg struct {
	text string
}

// spinnerQuitMsg signals the spinner to quit.
type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTextMsg:
		m.text = msg.text
		return m, nil
	case spinnerQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

func newBubbleSpinner(text string, output io.Writer) *bubbleSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &bubbleSpinner{
		model:  spinnerModel{spinner: s, text: text},
		output: output,
	}
}

func (s *bubbleSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		return
	}
	// The spinner never reads the keyboard; prompts own stdin.
	s.program = tea.NewProgram(s.model, tea.WithOutput(s.output), tea.WithInput(nil))
	s.done = make(chan struct{})
	go func(p *tea.Program, done chan struct{}) {
		defer close(done)
		_, _ = p.Run()
	}(s.program, s.done)
}

func (s *bubbleSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program == nil {
		return
	}
	s.program.Send(spinnerQuitMsg{})
	select {
	case <-s.done:
	case <-time.After(time.Second):
		s.program.Kill()
	}
	s.program = nil
}

func (s *bubbleSpinner) UpdateText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model.text = text
	if s.program != nil {
		s.program.Send(spinnerTextMsg{text: text})
	}
}

// noopSpinner is a no-op implementation of Spinner.
type noopSpinner struct{}

func (noopSpinner) Start()            {}
func (noopSpinner) Stop()             {}
func (noopSpinner) UpdateText(string) {}

// noopProgress is a no-op implementation of Progress.
type noopProgress struct{}

func (noopProgress) Describe(string) {}
func (noopProgress) Increment()      {}
func (noopProgress) Clear()          {}
func (noopProgress) Finish()         {}
