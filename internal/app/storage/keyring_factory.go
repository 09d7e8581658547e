package storage

import (
	"context"
	"log/slog"

	"github.com/agilechain/chainsync/internal/session"
	"github.com/agilechain/chainsync/internal/status"
)

// KeyringFactory keeps the session token in the OS keyring and everything else in files
type KeyringFactory struct {
	files   *FileFactory
	service string
}

var _ Factory = (*KeyringFactory)(nil)

// NewKeyringFactory wraps a file factory. An empty service selects session.DefaultKeyringService.
func NewKeyringFactory(files *FileFactory, service string) *KeyringFactory {
	return &KeyringFactory{files: files, service: service}
}

// CreateSessionStore creates a keyring-backed session store
func (k *KeyringFactory) CreateSessionStore(_ context.Context) (session.Store, error) {
	slog.Debug("Creating keyring session store", "service", k.service)
	return session.NewKeyringStore(session.NewFileStore(k.files.sessionDir), k.service), nil
}

// CreateReportStore delegates to the file factory
func (k *KeyringFactory) CreateReportStore(ctx context.Context) (status.ReportStore, error) {
	return k.files.CreateReportStore(ctx)
}

// DataDir returns the directory holding the sync report
func (k *KeyringFactory) DataDir() string {
	return k.files.DataDir()
}

// Cleanup is a no-op
func (*KeyringFactory) Cleanup() {}
