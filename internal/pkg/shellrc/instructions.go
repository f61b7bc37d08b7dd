package shellrc

import (
	"fmt"
	"strings"
)

// ManualInstructions tells the user how to set variables themselves.
type ManualInstructions struct {
	Shell    ShellType
	Profile  string
	Steps    []string
	Commands []string
}

// PlaceholderValue stands in for a secret in printed commands.
const PlaceholderValue = "your_api_key_here"

// GetManualInstructions builds instructions for shell. profile is shown as
// given, so pass a "~/..." path for display. Values are printed as is;
// callers mask secrets first.
func GetManualInstructions(shell ShellType, profile string, vars []Var) *ManualInstructions {
	mi := &ManualInstructions{Shell: shell, Profile: profile}

	if shell == ShellPowerShell {
		mi.Steps = []string{
			"1. Run the commands below in a terminal",
			"2. Open a new terminal so the variables are picked up",
		}
		for _, v := range vars {
			mi.Commands = append(mi.Commands, ExportLine(shell, v))
		}
		return mi
	}

	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		lines = append(lines, ExportLine(shell, v))
	}
	mi.Steps = []string{
		fmt.Sprintf("1. Edit %s", profile),
		fmt.Sprintf("2. Add these lines:\n     %s", strings.Join(lines, "\n     ")),
		fmt.Sprintf("3. Save the file and run: source %s", profile),
		"   Or restart your terminal",
	}
	for _, line := range lines {
		mi.Commands = append(mi.Commands, fmt.Sprintf("echo '%s' >> %s", line, profile))
	}
	return mi
}

// Format renders the instructions for the terminal.
func (mi *ManualInstructions) Format() string {
	if mi == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("To configure chacha manually:\n\n")
	for _, step := range mi.Steps {
		sb.WriteString(step + "\n")
	}
	if len(mi.Commands) > 0 {
		sb.WriteString("\nOr run:\n")
		for _, cmd := range mi.Commands {
			sb.WriteString("  " + cmd + "\n")
		}
	}
	return sb.String()
}

// DisplayProfile shortens a profile path under homeDir to "~/...".
func DisplayProfile(path, homeDir string) string {
	if homeDir != "" && strings.HasPrefix(path, homeDir+"/") {
		return "~" + path[len(homeDir):]
	}
	return path
}
