package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
)

// FileName is the name of the session file
const FileName = "session.json"

// DefaultDir returns the default data directory, under the XDG data home
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "chainsync")
}

// FileStore keeps the session in a JSON file
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file store in dir. An empty dir selects DefaultDir.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = DefaultDir()
	}
	return &FileStore{path: filepath.Join(dir, FileName)}
}

// Path returns the session file path
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the session file
func (f *FileStore) Load(_ context.Context) (*Session, error) {
	// #nosec G304 -- path is built from the configured data directory
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session file: %w", err)
	}
	return &s, nil
}

// Save replaces the session file atomically
func (f *FileStore) Save(_ context.Context, s *Session) error {
	if s == nil {
		return errors.New("session is nil")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	unlock, err := f.lock()
	if err != nil {
		return err
	}
	defer unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tempPath := f.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary session file: %w", err)
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename session file: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an empty store is not an error.
func (f *FileStore) Clear(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(f.path)); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	unlock, err := f.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (f *FileStore) lock() (func(), error) {
	lock := flock.New(f.path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock session file: %w", err)
	}
	return func() { _ = lock.Unlock() }, nil
}
