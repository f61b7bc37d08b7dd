package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger writes diagnostics to stderr. Only errors are shown unless verbose
// mode is on.
type Logger struct {
	mu      sync.Mutex
	zl      zerolog.Logger
	output  io.Writer
	level   zerolog.Level
	verbose bool
}

var defaultLogger = NewLogger(os.Stderr, false)

// NewLogger creates a logger writing human-readable lines to output.
func NewLogger(output io.Writer, verbose bool) *Logger {
	l := &Logger{output: output, level: zerolog.ErrorLevel}
	if verbose {
		l.verbose = true
		l.level = zerolog.DebugLevel
	}
	l.rebuild()
	return l
}

func (l *Logger) rebuild() {
	writer := zerolog.ConsoleWriter{
		Out:        l.output,
		TimeFormat: "15:04:05",
		NoColor:    true,
	}
	l.zl = zerolog.New(writer).Level(l.level).With().Timestamp().Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(verbose bool) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.verbose = verbose
	if verbose {
		defaultLogger.level = zerolog.DebugLevel
	} else {
		defaultLogger.level = zerolog.ErrorLevel
	}
	defaultLogger.rebuild()
}

// SetLevel sets the level from a name such as "debug" or "warn".
// Unknown names are ignored.
func SetLevel(name string) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return
	}
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = level
	defaultLogger.verbose = level <= zerolog.DebugLevel
	defaultLogger.rebuild()
}

// IsVerbose returns whether verbose logging is enabled.
func IsVerbose() bool {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.verbose
}

// SetOutput sets the output writer for the logger.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.output = w
	defaultLogger.rebuild()
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.zl.WithLevel(level)
}

func (l *Logger) log(level zerolog.Level, format string, args ...interface{}) {
	if e := l.event(level); e != nil {
		e.Msg(SanitizeErrorMessage(fmt.Sprintf(format, args...)))
	}
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(zerolog.ErrorLevel, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(zerolog.WarnLevel, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(zerolog.InfoLevel, format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(zerolog.DebugLevel, format, args...)
}

// LogAPIRequest logs an outbound provider call.
func (l *Logger) LogAPIRequest(provider, endpoint, model string, promptLength int) {
	if e := l.event(zerolog.DebugLevel); e != nil {
		e.Str("provider", provider).
			Str("endpoint", endpoint).
			Str("model", model).
			Int("prompt_length", promptLength).
			Msg("api request")
	}
}

// LogAPIResponse logs a provider response.
func (l *Logger) LogAPIResponse(provider string, statusCode int, responseLength int, duration time.Duration) {
	if e := l.event(zerolog.DebugLevel); e != nil {
		e.Str("provider", provider).
			Int("status", statusCode).
			Int("response_length", responseLength).
			Dur("duration", duration).
			Msg("api response")
	}
}

// LogRetry logs a retry attempt.
func (l *Logger) LogRetry(attempt int, maxAttempts int, err error, delay time.Duration) {
	if e := l.event(zerolog.DebugLevel); e != nil {
		e.Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Str("error", SanitizeErrorMessage(err.Error())).
			Dur("delay", delay).
			Msg("retrying")
	}
}

// LogGitCommand logs a git invocation.
func (l *Logger) LogGitCommand(args []string, duration time.Duration, err error) {
	e := l.event(zerolog.DebugLevel)
	if e == nil {
		return
	}
	e = e.Strs("args", args).Dur("duration", duration)
	if err != nil {
		e = e.Str("error", err.Error())
	}
	e.Msg("git")
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

// LogAPIRequest logs an outbound provider call.
func LogAPIRequest(provider, endpoint, model string, promptLength int) {
	defaultLogger.LogAPIRequest(provider, endpoint, model, promptLength)
}

// LogAPIResponse logs a provider response.
func LogAPIResponse(provider string, statusCode int, responseLength int, duration time.Duration) {
	defaultLogger.LogAPIResponse(provider, statusCode, responseLength, duration)
}

// LogRetry logs a retry attempt.
func LogRetry(attempt int, maxAttempts int, err error, delay time.Duration) {
	defaultLogger.LogRetry(attempt, maxAttempts, err, delay)
}

// LogGitCommand logs a git invocation.
func LogGitCommand(args []string, duration time.Duration, err error) {
	defaultLogger.LogGitCommand(args, duration, err)
}

// MaskAPIKey masks an API key for safe logging, showing only the last 4 characters.
func MaskAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(apiKey)-4) + apiKey[len(apiKey)-4:]
}
