// Package history records the outcome of each commit plan.
package history

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

const (
	// DefaultMaxEntries is the default maximum number of history entries.
	DefaultMaxEntries = 1000
)

// Status is the final state a commit plan reached.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusPushFailed Status = "push_failed"
)

// Entry represents a single commit plan.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Files     []string  `json:"files"`
	Branch    string    `json:"branch"`
	Hash      string    `json:"hash,omitempty"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model,omitempty"`
}

// Recorder is the part of a history store the commit flow writes to.
type Recorder interface {
	Save(entry *Entry) error
}

// Manager defines the interface for history management.
type Manager interface {
	Recorder
	List(limit int) ([]*Entry, error)
	Clear() error
}

// FileManager implements Manager using a JSON file for storage.
type FileManager struct {
	filePath   string
	maxEntries int
	mu         sync.Mutex
}

// NewFileManager creates a new FileManager with the specified file path and max entries.
func NewFileManager(filePath string, maxEntries int) *FileManager {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &FileManager{
		filePath:   filePath,
		maxEntries: maxEntries,
	}
}

// Save appends entry, filling in a UUID and timestamp when missing.
// The oldest entries are dropped once maxEntries is exceeded.
func (m *FileManager) Save(entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	entries, err := m.loadEntries()
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > m.maxEntries {
		entries = entries[len(entries)-m.maxEntries:]
	}

	return m.saveEntries(entries)
}

// List returns the most recent entries up to the specified limit.
// If limit is 0 or negative, returns all entries.
func (m *FileManager) List(limit int) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadEntries()
	if err != nil {
		if os.IsNotExist(err) {
			return []*Entry{}, nil
		}
		return nil, err
	}

	if limit <= 0 || len(entries) <= limit {
		return entries, nil
	}
	return entries[len(entries)-limit:], nil
}

// Clear removes all entries from the history file.
func (m *FileManager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveEntries([]*Entry{})
}

func (m *FileManager) loadEntries() ([]*Entry, error) {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to read history file").
			WithContext("path", m.filePath)
	}

	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to parse history file").
			WithContext("path", m.filePath).
			WithSuggestion("Run 'chacha history clear' to reset it")
	}
	return entries, nil
}

func (m *FileManager) saveEntries(entries []*Entry) error {
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0700); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to create history directory")
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to encode history")
	}

	// Commit messages can mention internal work; keep the file private.
	if err := os.WriteFile(m.filePath, data, 0600); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to write history file").
			WithContext("path", m.filePath)
	}
	return nil
}

// Nop discards every entry. It is used when history is disabled.
type Nop struct{}

// Save implements Recorder.
func (Nop) Save(*Entry) error { return nil }
