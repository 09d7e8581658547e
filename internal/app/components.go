package app

import (
	"github.com/agilechain/chainsync/internal/app/storage"
	"github.com/agilechain/chainsync/internal/backend"
	"github.com/agilechain/chainsync/internal/ledger"
	"github.com/agilechain/chainsync/internal/session"
	"github.com/agilechain/chainsync/internal/status"
	"github.com/agilechain/chainsync/internal/sync/coordinator"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Coordinator decides when local state is reconciled against the ledger
	Coordinator coordinator.Coordinator

	// Gateway is the read side of the ledger sidecar
	Gateway ledger.Gateway

	// Writer is the ledger write side decorated with the transaction-sync hooks
	Writer ledger.Writer

	// Backend is the team backend client
	Backend *backend.Client

	Sessions session.Store
	Reports  status.ReportStore
	Storage  storage.Factory
}

var _ coordinator.TeamProvider = (*backend.Client)(nil)
