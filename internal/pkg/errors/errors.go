// Package errors provides the error taxonomy, formatting, logging and retry helpers for chacha.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrorCode represents the kind of an error.
type ErrorCode int

const (
	// User errors (Exit Code 1)
	ErrUsage ErrorCode = iota + 100
	ErrInvalidConfig
	ErrMissingCredential
	ErrUnknownProvider
	ErrNoProviderConfigured
	ErrFileNotFound
	ErrFileUnreadable
	ErrEmptyDocument
	ErrUnsupportedEncoding
)

const (
	// Repository errors (Exit Code 2)
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrUnknownCommit
	ErrStageFailed
	ErrCommitFailed
	ErrPushFailed
	ErrFileSystemError
)

const (
	// Provider errors (Exit Code 3)
	ErrProviderUnavailable ErrorCode = iota + 300
	ErrProviderRejected
	ErrProviderResponseInvalid
)

// ExitCode returns the process exit code for an error code.
func (c ErrorCode) ExitCode() int {
	switch {
	case c >= 100 && c < 200:
		return 1
	case c >= 200 && c < 300:
		return 2
	case c >= 300:
		return 3
	default:
		return 1
	}
}

// String returns the kind name shown to users.
func (c ErrorCode) String() string {
	switch c {
	case ErrUsage:
		return "UsageError"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrMissingCredential:
		return "MissingCredential"
	case ErrUnknownProvider:
		return "UnknownProvider"
	case ErrNoProviderConfigured:
		return "NoProviderConfigured"
	case ErrFileNotFound:
		return "FileNotFound"
	case ErrFileUnreadable:
		return "FileUnreadable"
	case ErrEmptyDocument:
		return "EmptyDocument"
	case ErrUnsupportedEncoding:
		return "UnsupportedEncoding"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrUnknownCommit:
		return "UnknownCommit"
	case ErrStageFailed:
		return "StageFailed"
	case ErrCommitFailed:
		return "CommitFailed"
	case ErrPushFailed:
		return "PushFailed"
	case ErrFileSystemError:
		return "FileSystemError"
	case ErrProviderUnavailable:
		return "ProviderUnavailable"
	case ErrProviderRejected:
		return "ProviderRejected"
	case ErrProviderResponseInvalid:
		return "ProviderResponseInvalid"
	default:
		return "Unknown"
	}
}

// Category returns the family an error code belongs to.
func (c ErrorCode) Category() string {
	switch c {
	case ErrMissingCredential, ErrUnknownProvider, ErrNoProviderConfigured, ErrInvalidConfig:
		return "ConfigurationError"
	case ErrUsage:
		return "UsageError"
	case ErrFileNotFound, ErrFileUnreadable, ErrEmptyDocument, ErrUnsupportedEncoding:
		return "ExtractionError"
	case ErrProviderUnavailable, ErrProviderRejected, ErrProviderResponseInvalid:
		return "ProviderError"
	case ErrGitCommandFailed, ErrUnknownCommit, ErrStageFailed, ErrCommitFailed, ErrPushFailed:
		return "GitError"
	default:
		return "Error"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
	StatusCode int           // HTTP status for ProviderRejected
	RetryAfter time.Duration // From a Retry-After header
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// IsRetryable returns true if repeating the failed operation may succeed.
func (e *AppError) IsRetryable() bool {
	switch e.Code {
	case ErrProviderUnavailable:
		return true
	case ErrProviderRejected:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

// GetRetryAfter returns the duration to wait before retrying.
func (e *AppError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return e.RetryAfter
	}
	return 0
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// RetryableError is an interface for errors that can be retried.
type RetryableError interface {
	error
	IsRetryable() bool
	GetRetryAfter() time.Duration
}

var _ RetryableError = (*AppError)(nil)

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether the chain contains an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var retryable RetryableError
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetRetryAfter returns the retry-after duration for an error.
func GetRetryAfter(err error) time.Duration {
	var retryable RetryableError
	if errors.As(err, &retryable) {
		return retryable.GetRetryAfter()
	}
	return 0
}

// Configuration errors

// NewMissingCredentialError reports a selected provider without its key.
func NewMissingCredentialError(provider string, envVars ...string) *AppError {
	return &AppError{
		Code:       ErrMissingCredential,
		Message:    fmt.Sprintf("%s provider selected but %s is not set", provider, strings.Join(envVars, " or ")),
		Suggestion: "Run 'chacha setup' or export the API key in your shell",
	}
}

// NewUnknownProviderError reports an unsupported CHACHA_PROVIDER value.
func NewUnknownProviderError(name string) *AppError {
	return &AppError{
		Code:       ErrUnknownProvider,
		Message:    fmt.Sprintf("unknown provider %q (expected anthropic or gemini)", name),
		Suggestion: "Set CHACHA_PROVIDER to 'anthropic' or 'gemini'",
	}
}

// NewNoProviderConfiguredError reports that no provider key was found.
func NewNoProviderConfiguredError() *AppError {
	return &AppError{
		Code:       ErrNoProviderConfigured,
		Message:    "no AI provider configured: set CLAUDE_API_KEY, GEMINI_API_KEY or GOOGLE_API_KEY",
		Suggestion: "Run 'chacha setup' to configure a provider",
	}
}

// NewInvalidConfigError creates an error for invalid configuration.
func NewInvalidConfigError(message string) *AppError {
	return &AppError{
		Code:       ErrInvalidConfig,
		Message:    message,
		Suggestion: "Run 'chacha config init' to create a valid configuration file",
	}
}

// NewUsageError creates an error for invalid command-line usage.
func NewUsageError(message string) *AppError {
	return &AppError{
		Code:    ErrUsage,
		Message: message,
	}
}

// Extraction errors

// NewFileNotFoundError reports a missing input file.
func NewFileNotFoundError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrFileNotFound,
		Message: fmt.Sprintf("file not found: %s", path),
		Cause:   err,
	}
}

// NewFileUnreadableError reports an input file that exists but cannot be read.
func NewFileUnreadableError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrFileUnreadable,
		Message: fmt.Sprintf("cannot read %s", path),
		Cause:   err,
	}
}

// NewFileTooLargeError reports an input file over the extract.max_bytes limit.
func NewFileTooLargeError(path string, limit int64) *AppError {
	return &AppError{
		Code:       ErrFileUnreadable,
		Message:    fmt.Sprintf("cannot read %s: larger than the %d-byte limit (extract.max_bytes)", path, limit),
		Suggestion: "Raise extract.max_bytes with 'chacha config set', or set it to 0 to remove the limit",
	}
}

// NewEmptyDocumentError reports a PDF without extractable text.
func NewEmptyDocumentError(path string) *AppError {
	return &AppError{
		Code:       ErrEmptyDocument,
		Message:    fmt.Sprintf("no extractable text in %s", path),
		Suggestion: "Scanned PDFs need OCR before they can be explained",
	}
}

// NewUnsupportedEncodingError reports a file that is not valid text.
func NewUnsupportedEncodingError(path string) *AppError {
	return &AppError{
		Code:    ErrUnsupportedEncoding,
		Message: fmt.Sprintf("%s is not valid UTF-8 text", path),
	}
}

// Git errors

// NewGitError creates an error for git command failures.
func NewGitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: "git command failed",
		Cause:   err,
	}
	if output != "" {
		appErr.Context = map[string]interface{}{
			"output": output,
		}
	}
	return appErr
}

// NewUnknownCommitError reports a commit reference that does not resolve.
func NewUnknownCommitError(ref string, err error) *AppError {
	return &AppError{
		Code:    ErrUnknownCommit,
		Message: fmt.Sprintf("unknown commit %q", ref),
		Cause:   err,
	}
}

// NewStageFailedError reports a failed git add.
func NewStageFailedError(err error) *AppError {
	return &AppError{
		Code:    ErrStageFailed,
		Message: "failed to stage files",
		Cause:   err,
	}
}

// NewCommitFailedError reports a failed git commit. Nothing was committed.
func NewCommitFailedError(err error) *AppError {
	return &AppError{
		Code:    ErrCommitFailed,
		Message: "commit failed",
		Cause:   err,
	}
}

// NewPushFailedError reports a failed push of a commit that exists locally.
func NewPushFailedError(commit, remote, branch string, err error) *AppError {
	return &AppError{
		Code:       ErrPushFailed,
		Message:    fmt.Sprintf("commit %s was created locally but pushing to %s/%s failed", shortHash(commit), remote, branch),
		Cause:      err,
		Suggestion: fmt.Sprintf("Run 'git push %s HEAD:%s' once the remote is reachable", remote, branch),
	}
}

// Provider errors

// NewProviderUnavailableError reports a transport failure or timeout.
func NewProviderUnavailableError(provider string, err error) *AppError {
	return &AppError{
		Code:       ErrProviderUnavailable,
		Message:    fmt.Sprintf("%s is unavailable", provider),
		Cause:      err,
		Suggestion: "Please check your network connection and try again",
	}
}

// NewProviderRejectedError reports a non-success HTTP status.
func NewProviderRejectedError(provider string, status int, body string) *AppError {
	appErr := &AppError{
		Code:       ErrProviderRejected,
		Message:    fmt.Sprintf("%s rejected the request (status %d): %s", provider, status, truncate(body, 300)),
		StatusCode: status,
	}
	appErr.WithContext("body", body)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		appErr.Suggestion = "Please check your API key is valid and has not expired"
	case http.StatusTooManyRequests:
		appErr.Suggestion = "Please wait and try again later"
	}
	return appErr
}

// NewProviderResponseInvalidError reports a response missing the expected fields.
func NewProviderResponseInvalidError(provider, detail string) *AppError {
	return &AppError{
		Code:    ErrProviderResponseInvalid,
		Message: fmt.Sprintf("unexpected %s response: %s", provider, detail),
	}
}

// ParseRetryAfterHeader parses the Retry-After header value.
// It handles both seconds (integer) and HTTP-date formats.
func ParseRetryAfterHeader(header string) time.Duration {
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		duration := time.Until(t)
		if duration > 0 {
			return duration
		}
	}

	return 0
}

// FormatError formats an error as the single line shown to users.
// API keys and other sensitive data are masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	appErr := GetAppError(err)
	if appErr == nil {
		return "Error: " + oneLine(SanitizeErrorMessage(err.Error()))
	}
	return fmt.Sprintf("Error [%s]: %s", appErr.Code, oneLine(SanitizeErrorMessage(appErr.Error())))
}

// FormatErrorVerbose formats an error with full details for verbose mode.
// API keys and other sensitive data are masked.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s/%s]: %s\n", appErr.Code.Category(), appErr.Code, SanitizeErrorMessage(appErr.Message)))

		if appErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("  Cause: %v\n", SanitizeErrorMessage(appErr.Cause.Error())))
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  Context:\n")
			for k, v := range appErr.Context {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, SanitizeErrorMessage(err.Error())))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	for _, pattern := range secretPatterns {
		msg = pattern.ReplaceAllStringFunc(msg, MaskAPIKey)
	}
	return msg
}

// secretPatterns matches Anthropic/OpenAI style keys, Google keys and key query parameters.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[a-zA-Z0-9_\-]{20,}`),
	regexp.MustCompile(`AIza[0-9A-Za-z_\-]{30,}`),
	regexp.MustCompile(`key=[^&\s"']+`),
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
