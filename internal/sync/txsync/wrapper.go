// Package txsync brackets ledger writes with the coordinator's pre-write and post-write
// reconciliation hooks.
package txsync

import (
	"context"
	"log/slog"

	"github.com/agilechain/chainsync/internal/ledger"
	pkgsync "github.com/agilechain/chainsync/internal/sync"
	"github.com/agilechain/chainsync/internal/sync/coordinator"
)

// Operation is one ledger write
type Operation func(ctx context.Context) (*ledger.WriteResult, error)

// Hooks are the reconciliation hooks run around a write. Either may be nil.
type Hooks struct {
	Before func(ctx context.Context, domain pkgsync.Domain) bool
	After  func(domain pkgsync.Domain)
}

// FromCoordinator adapts the coordinator's transaction hooks
func FromCoordinator(c coordinator.Coordinator) Hooks {
	return Hooks{
		Before: c.SyncBeforeTransaction,
		After: func(domain pkgsync.Domain) {
			c.SyncAfterTransaction(domain)
		},
	}
}

// Wrapper runs ledger writes between the reconciliation hooks
type Wrapper struct {
	hooks Hooks
}

// NewWrapper creates a wrapper around the given hooks
func NewWrapper(hooks Hooks) *Wrapper {
	return &Wrapper{hooks: hooks}
}

// ExecuteWithSync runs op exactly once. The pre-write reconciliation is best-effort and
// does not gate the write. An op error is returned unchanged and skips the post-write
// reconciliation, as does an unsuccessful or nil result.
func (w *Wrapper) ExecuteWithSync(ctx context.Context, domain pkgsync.Domain, op Operation) (*ledger.WriteResult, error) {
	w.before(ctx, domain)

	result, err := op(ctx)
	if err != nil {
		slog.Error("Ledger write failed", "domain", domain, "error", err)
		return nil, err
	}

	if result == nil || !result.Success {
		slog.Debug("Ledger write unsuccessful, skipping post-write sync", "domain", domain)
		return result, nil
	}

	w.after(domain)
	return result, nil
}

// Wrap returns op decorated with the reconciliation hooks for domain
func (w *Wrapper) Wrap(domain pkgsync.Domain, op Operation) Operation {
	return func(ctx context.Context) (*ledger.WriteResult, error) {
		return w.ExecuteWithSync(ctx, domain, op)
	}
}

func (w *Wrapper) before(ctx context.Context, domain pkgsync.Domain) {
	if w.hooks.Before == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Pre-write sync hook panicked", "domain", domain, "panic", r)
		}
	}()

	if !w.hooks.Before(ctx, domain) {
		slog.Warn("Pre-write sync did not succeed, proceeding with write", "domain", domain)
	}
}

func (w *Wrapper) after(domain pkgsync.Domain) {
	if w.hooks.After == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Post-write sync hook panicked", "domain", domain, "panic", r)
		}
	}()

	w.hooks.After(domain)
}
