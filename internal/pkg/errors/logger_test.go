package errors

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.Error("error message")
	logger.Warn("warn message")
	logger.Info("info message")
	logger.Debug("debug message")

	output := buf.String()

	for _, want := range []string{"ERR", "WRN", "INF", "DBG", "debug message"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q, got %q", want, output)
		}
	}
}

func TestLogger_NonVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.Error("error message")
	logger.Warn("warn message")
	logger.Info("info message")
	logger.Debug("debug message")

	output := buf.String()

	if !strings.Contains(output, "error message") {
		t.Error("Output should contain errors even in non-verbose mode")
	}
	for _, unwanted := range []string{"warn message", "info message", "debug message"} {
		if strings.Contains(output, unwanted) {
			t.Errorf("Output should not contain %q in non-verbose mode", unwanted)
		}
	}
}

func TestLogger_MasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.Error("request failed with key sk-ant-REDACTED")

	if strings.Contains(buf.String(), "abcdefghijklmnop") {
		t.Errorf("API key leaked into log output: %q", buf.String())
	}
}

func TestLogger_LogAPIRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.LogAPIRequest("anthropic", "https://api.anthropic.com", "claude-3-5-sonnet-latest", 1000)

	output := buf.String()

	if !strings.Contains(output, "anthropic") {
		t.Error("Output should contain provider name")
	}
	if !strings.Contains(output, "claude-3-5-sonnet-latest") {
		t.Error("Output should contain model name")
	}
}

func TestLogger_LogAPIResponse(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.LogAPIResponse("gemini", 200, 500, 100*time.Millisecond)

	output := buf.String()

	if !strings.Contains(output, "gemini") {
		t.Error("Output should contain provider name")
	}
	if !strings.Contains(output, "200") {
		t.Error("Output should contain status code")
	}
}

func TestLogger_LogRetry(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.LogRetry(1, 3, New(ErrProviderUnavailable, "connection failed"), 1*time.Second)

	output := buf.String()

	if !strings.Contains(output, "retrying") {
		t.Error("Output should contain 'retrying'")
	}
	if !strings.Contains(output, "max_attempts=3") {
		t.Errorf("Output should contain attempt count, got %q", output)
	}
}

func TestLogger_LogGitCommand(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.LogGitCommand([]string{"status", "--porcelain"}, time.Millisecond, errors.New("exit status 128"))

	output := buf.String()
	if !strings.Contains(output, "porcelain") || !strings.Contains(output, "exit status 128") {
		t.Errorf("unexpected git log line %q", output)
	}
}

func TestLogger_SilentWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.LogAPIRequest("anthropic", "https://api.anthropic.com", "m", 1)
	logger.LogAPIResponse("anthropic", 200, 1, time.Millisecond)

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		expected string
	}{
		{
			name:     "normal key",
			apiKey:   "sk-1234567890abcdef",
			expected: "***************cdef",
		},
		{
			name:     "short key",
			apiKey:   "abc",
			expected: "****",
		},
		{
			name:     "exactly 4 chars",
			apiKey:   "abcd",
			expected: "****",
		},
		{
			name:     "5 chars",
			apiKey:   "abcde",
			expected: "*bcde",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskAPIKey(tt.apiKey); got != tt.expected {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.apiKey, got, tt.expected)
			}
		})
	}
}

func TestSetVerbose(t *testing.T) {
	originalVerbose := IsVerbose()
	defer SetVerbose(originalVerbose)

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("IsVerbose() should return true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("IsVerbose() should return false after SetVerbose(false)")
	}
}

func TestSetLevel(t *testing.T) {
	originalVerbose := IsVerbose()
	defer SetVerbose(originalVerbose)

	SetLevel("debug")
	if !IsVerbose() {
		t.Error("debug level should enable verbose mode")
	}

	SetLevel("not-a-level")
	if !IsVerbose() {
		t.Error("unknown level names should be ignored")
	}

	SetLevel("warn")
	if IsVerbose() {
		t.Error("warn level should not be verbose")
	}
}
