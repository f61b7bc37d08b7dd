package shellrc

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectShell(t *testing.T) {
	tests := []struct {
		name         string
		shellEnv     string
		expectedType ShellType
		expectedName string
	}{
		{"bash shell", "/bin/bash", ShellBash, "bash"},
		{"zsh shell", "/usr/bin/zsh", ShellZsh, "zsh"},
		{"fish shell", "/usr/local/bin/fish", ShellFish, "fish"},
		{"pwsh", "/usr/local/bin/pwsh", ShellPowerShell, "powershell"},
		{"unknown shell", "/bin/sh", ShellUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectShell(tt.shellEnv)
			assert.Equal(t, tt.expectedType, got)
			assert.Equal(t, tt.expectedName, got.String())
		})
	}
}

func TestProfilePath_BashPrefersExisting(t *testing.T) {
	home := t.TempDir()

	assert.Equal(t, filepath.Join(home, ".bashrc"), ProfilePath(ShellBash, home))

	require.NoError(t, os.WriteFile(filepath.Join(home, ".bash_profile"), nil, 0644))
	assert.Equal(t, filepath.Join(home, ".bash_profile"), ProfilePath(ShellBash, home))

	require.NoError(t, os.WriteFile(filepath.Join(home, ".bashrc"), nil, 0644))
	assert.Equal(t, filepath.Join(home, ".bashrc"), ProfilePath(ShellBash, home))
}

func TestExportLine(t *testing.T) {
	v := Var{Name: "CLAUDE_API_KEY", Value: "sk-ant-123"}

	assert.Equal(t, `export CLAUDE_API_KEY="sk-ant-123"`, ExportLine(ShellBash, v))
	assert.Equal(t, `export CLAUDE_API_KEY="sk-ant-123"`, ExportLine(ShellUnknown, v))
	assert.Equal(t, `set -gx CLAUDE_API_KEY "sk-ant-123"`, ExportLine(ShellFish, v))
	assert.Equal(t, `setx CLAUDE_API_KEY "sk-ant-123"`, ExportLine(ShellPowerShell, v))

	odd := Var{Name: "X", Value: "a\"b$c`d"}
	assert.Equal(t, "export X=\"a\\\"b\\$c\\`d\"", ExportLine(ShellZsh, odd))
	assert.Equal(t, "set -gx X \"a\\\"b\\$c`d\"", ExportLine(ShellFish, odd))
}

func TestWriter_SetVars_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bashrc")
	existing := "alias ll='ls -l'\nexport CLAUDE_API_KEY=old\nexport CLAUDE_API_KEY_BACKUP=keep\n"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0600))

	w := NewWriter(ShellBash, path)
	res, err := w.SetVars([]Var{
		{Name: "CLAUDE_API_KEY", Value: "new"},
		{Name: "CHACHA_PROVIDER", Value: "anthropic"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Replaced)
	assert.Equal(t, path, res.ProfilePath)
	assert.Contains(t, res.ReloadHint(), "source "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"alias ll='ls -l'\nexport CLAUDE_API_KEY_BACKUP=keep\n\n"+
			Marker+"\n"+
			"export CLAUDE_API_KEY=\"new\"\n"+
			"export CHACHA_PROVIDER=\"anthropic\"\n",
		string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestWriter_SetVars_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".zshrc")
	vars := []Var{{Name: "GEMINI_API_KEY", Value: "AIzaExample"}}
	w := NewWriter(ShellZsh, path)

	_, err := w.SetVars(vars)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	res, err := w.SetVars(vars)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 1, res.Replaced)
	assert.Equal(t, 1, strings.Count(string(second), Marker))
}

func TestWriter_SetVars_FishCreatesDirectory(t *testing.T) {
	home := t.TempDir()
	path := ProfilePath(ShellFish, home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("set -gx GEMINI_API_KEY old\nset -x EDITOR vim\n"), 0644))

	_, err := NewWriter(ShellFish, path).SetVars([]Var{{Name: "GEMINI_API_KEY", Value: "new"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "set -x EDITOR vim\n\n"+Marker+"\nset -gx GEMINI_API_KEY \"new\"\n", string(data))
}

func TestForCurrentShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("profiles are not edited on Windows")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHELL", "/bin/zsh")

	w, err := ForCurrentShell()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".zshrc"), w.Path())

	t.Setenv("SHELL", "/usr/bin/pwsh")
	_, err = ForCurrentShell()
	assert.Error(t, err)
}

func TestManualInstructions(t *testing.T) {
	vars := []Var{
		{Name: "CLAUDE_API_KEY", Value: PlaceholderValue},
		{Name: "CHACHA_PROVIDER", Value: "anthropic"},
	}

	mi := GetManualInstructions(ShellZsh, "~/.zshrc", vars)
	require.Len(t, mi.Commands, 2)
	assert.Equal(t, `echo 'export CLAUDE_API_KEY="your_api_key_here"' >> ~/.zshrc`, mi.Commands[0])

	out := mi.Format()
	assert.Contains(t, out, "1. Edit ~/.zshrc")
	assert.Contains(t, out, "source ~/.zshrc")
	assert.Contains(t, out, `export CHACHA_PROVIDER="anthropic"`)

	ps := GetManualInstructions(ShellPowerShell, "", vars)
	assert.Equal(t, `setx CLAUDE_API_KEY "your_api_key_here"`, ps.Commands[0])

	assert.Equal(t, "", (*ManualInstructions)(nil).Format())
}

func TestDisplayProfile(t *testing.T) {
	assert.Equal(t, "~/.zshrc", DisplayProfile("/home/u/.zshrc", "/home/u"))
	assert.Equal(t, "/etc/profile", DisplayProfile("/etc/profile", "/home/u"))
	assert.Equal(t, "/home/u2/.zshrc", DisplayProfile("/home/u2/.zshrc", "/home/u"))
}
