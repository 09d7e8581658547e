// Package storage provides factory functions for creating the storage-dependent
// components of chainsync: the session store and the sync report store.
package storage

import (
	"context"
	"fmt"

	"github.com/agilechain/chainsync/internal/config"
	"github.com/agilechain/chainsync/internal/session"
	"github.com/agilechain/chainsync/internal/status"
)

//go:generate mockgen -destination=mocks/mock_factory.go -package=mocks -source=factory.go Factory

// Factory creates storage-dependent components as a family, so the session and the
// last sync report always live under the same data directory.
type Factory interface {
	// CreateSessionStore creates the store holding the auth token and cached user
	CreateSessionStore(ctx context.Context) (session.Store, error)

	// CreateReportStore creates the store holding the last sync report
	CreateReportStore(ctx context.Context) (status.ReportStore, error)

	// DataDir returns the directory the stores write to
	DataDir() string

	// Cleanup releases any resources held by this factory
	Cleanup()
}

// NewStorageFactory creates a storage factory based on the session configuration.
// Returns a KeyringFactory when the token is kept in the OS keyring and a FileFactory
// otherwise.
func NewStorageFactory(cfg *config.Config) (Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	files, err := NewFileFactory(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Session.Keyring {
		return NewKeyringFactory(files, cfg.Session.KeyringService), nil
	}
	return files, nil
}
