// Package shellrc writes environment variable exports into the user's
// shell profile.
package shellrc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

// Marker precedes the lines chacha appends to a profile.
const Marker = "# Added by chacha setup"

// ShellType represents the type of shell.
type ShellType int

const (
	// ShellUnknown represents an unknown shell type.
	ShellUnknown ShellType = iota
	// ShellBash represents the Bash shell.
	ShellBash
	// ShellZsh represents the Zsh shell.
	ShellZsh
	// ShellFish represents the Fish shell.
	ShellFish
	// ShellPowerShell represents PowerShell. Profiles are never edited for it.
	ShellPowerShell
)

// String returns the string representation of the shell type.
func (s ShellType) String() string {
	switch s {
	case ShellBash:
		return "bash"
	case ShellZsh:
		return "zsh"
	case ShellFish:
		return "fish"
	case ShellPowerShell:
		return "powershell"
	default:
		return "unknown"
	}
}

// Var is one variable to export.
type Var struct {
	Name  string
	Value string
}

// DetectShell maps a $SHELL value to a ShellType.
func DetectShell(shell string) ShellType {
	if shell == "" {
		if runtime.GOOS == "windows" {
			return ShellPowerShell
		}
		return ShellUnknown
	}

	shellName := filepath.Base(shell)
	switch {
	case strings.Contains(shellName, "bash"):
		return ShellBash
	case strings.Contains(shellName, "zsh"):
		return ShellZsh
	case strings.Contains(shellName, "fish"):
		return ShellFish
	case strings.Contains(shellName, "pwsh"), strings.Contains(shellName, "powershell"):
		return ShellPowerShell
	default:
		return ShellUnknown
	}
}

// ProfilePath returns the profile file for shell under homeDir. Bash prefers
// an existing .bashrc, then an existing .bash_profile.
func ProfilePath(shell ShellType, homeDir string) string {
	switch shell {
	case ShellBash:
		bashrc := filepath.Join(homeDir, ".bashrc")
		if _, err := os.Stat(bashrc); err == nil {
			return bashrc
		}
		bashProfile := filepath.Join(homeDir, ".bash_profile")
		if _, err := os.Stat(bashProfile); err == nil {
			return bashProfile
		}
		return bashrc
	case ShellZsh:
		return filepath.Join(homeDir, ".zshrc")
	case ShellFish:
		return filepath.Join(homeDir, ".config", "fish", "config.fish")
	default:
		return filepath.Join(homeDir, ".profile")
	}
}

// ExportLine renders one assignment in the syntax of shell.
func ExportLine(shell ShellType, v Var) string {
	switch shell {
	case ShellFish:
		return fmt.Sprintf(`set -gx %s "%s"`, v.Name, escape(v.Value, `\"$`))
	case ShellPowerShell:
		return fmt.Sprintf(`setx %s "%s"`, v.Name, v.Value)
	default:
		return fmt.Sprintf(`export %s="%s"`, v.Name, escape(v.Value, "\\\"$`"))
	}
}

func escape(value, special string) string {
	var sb strings.Builder
	for _, r := range value {
		if strings.ContainsRune(special, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Result describes a profile update.
type Result struct {
	ProfilePath string
	Shell       ShellType
	// Replaced counts earlier assignments of the same variables that were removed.
	Replaced int
}

// ReloadHint tells the user how to pick up the new variables.
func (r *Result) ReloadHint() string {
	return fmt.Sprintf("Please restart your terminal or run: source %s", r.ProfilePath)
}

// Writer updates one shell profile.
type Writer struct {
	shell ShellType
	path  string
}

// NewWriter creates a Writer for the profile at path.
func NewWriter(shell ShellType, path string) *Writer {
	return &Writer{shell: shell, path: path}
}

// ForCurrentShell creates a Writer for the shell named by $SHELL.
func ForCurrentShell() (*Writer, error) {
	shell := DetectShell(os.Getenv("SHELL"))
	if shell == ShellPowerShell {
		return nil, apperrors.NewUsageError("cannot edit a PowerShell profile").
			WithSuggestion("Set the variables with setx, as shown above")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to get home directory")
	}
	return NewWriter(shell, ProfilePath(shell, homeDir)), nil
}

// Path returns the profile file the writer edits.
func (w *Writer) Path() string {
	return w.path
}

// SetVars removes earlier assignments of vars from the profile and appends
// the new ones under Marker. Running it twice leaves the same file.
func (w *Writer) SetVars(vars []Var) (*Result, error) {
	result := &Result{ProfilePath: w.path, Shell: w.shell}

	var fileMode os.FileMode = 0644
	content := ""
	if info, err := os.Stat(w.path); err == nil {
		fileMode = info.Mode().Perm()
		data, err := os.ReadFile(w.path)
		if err != nil {
			return nil, w.fsError(err, "failed to read profile file")
		}
		content = string(data)
	} else if !os.IsNotExist(err) {
		return nil, w.fsError(err, "failed to stat profile file")
	}

	kept, removed := stripAssignments(content, vars)
	result.Replaced = removed

	var sb strings.Builder
	sb.WriteString(kept)
	if kept != "" {
		sb.WriteString("\n\n")
	}
	sb.WriteString(Marker + "\n")
	for _, v := range vars {
		sb.WriteString(ExportLine(w.shell, v) + "\n")
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return nil, w.fsError(err, "failed to create profile directory")
	}
	if err := writeAtomic(w.path, []byte(sb.String()), fileMode); err != nil {
		return nil, w.fsError(err, "failed to write profile file")
	}
	return result, nil
}

func (w *Writer) fsError(err error, msg string) error {
	return apperrors.Wrap(err, apperrors.ErrFileSystemError, msg).WithContext("path", w.path)
}

// stripAssignments drops marker lines and any line assigning one of vars.
// It returns the remaining text without trailing newlines.
func stripAssignments(content string, vars []Var) (string, int) {
	if content == "" {
		return "", 0
	}

	patterns := make([]*regexp.Regexp, 0, len(vars))
	for _, v := range vars {
		name := regexp.QuoteMeta(v.Name)
		patterns = append(patterns, regexp.MustCompile(
			`^\s*(export\s+`+name+`=|set\s+(-[a-zA-Z]+\s+)*`+name+`(\s|$))`))
	}

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	removed := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == Marker {
			continue
		}
		matched := false
		for _, p := range patterns {
			if p.MatchString(line) {
				matched = true
				break
			}
		}
		if matched {
			removed++
			continue
		}
		out = append(out, line)
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n"), removed
}

// writeAtomic replaces path through a temporary file in the same directory.
func writeAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".chacha-profile-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
