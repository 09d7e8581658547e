package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/agilechain/chainsync/internal/config"
	"github.com/agilechain/chainsync/internal/session"
	"github.com/agilechain/chainsync/internal/status"
)

// FileFactory creates file-based storage components.
// All components created by this factory use the local filesystem for persistence.
type FileFactory struct {
	sessionDir string
	dataDir    string
}

var _ Factory = (*FileFactory)(nil)

// NewFileFactory creates a new file-based storage factory, ensuring the session and
// data directories exist. The data directory defaults to the session directory.
func NewFileFactory(cfg *config.Config) (*FileFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	sessionDir := cfg.Session.Dir
	if sessionDir == "" {
		sessionDir = session.DefaultDir()
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = sessionDir
	}

	for _, dir := range []string{sessionDir, dataDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	slog.Info("Creating file-based storage factory", "session_dir", sessionDir, "data_dir", dataDir)

	return &FileFactory{sessionDir: sessionDir, dataDir: dataDir}, nil
}

// CreateSessionStore creates a session store backed by the session file
func (f *FileFactory) CreateSessionStore(_ context.Context) (session.Store, error) {
	slog.Debug("Creating file-based session store")
	return session.NewFileStore(f.sessionDir), nil
}

// CreateReportStore creates a report store writing under the data directory
func (f *FileFactory) CreateReportStore(_ context.Context) (status.ReportStore, error) {
	slog.Debug("Creating file-based report store")
	return status.NewFileReportStore(f.dataDir), nil
}

// DataDir returns the directory holding the sync report
func (f *FileFactory) DataDir() string {
	return f.dataDir
}

// Cleanup is a no-op for file storage
func (*FileFactory) Cleanup() {}
