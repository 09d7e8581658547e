// Package coordinator decides when local state is reconciled against the ledger.
//
// The coordinator owns the per-domain throttle state, the circuit-breaker recovery, the
// four domain reconcilers and the pending post-write reconciliations. It sits on top of
// internal/sync, which holds the reconcilers themselves, and is driven by:
//
//   - The UI and the HTTP API (SyncAll, SyncDomain, Status)
//   - The transaction wrapper in internal/sync/txsync (SyncBeforeTransaction,
//     SyncAfterTransaction)
//   - The periodic ticker (StartPeriodicSync)
//
// # Concurrency
//
// SyncAll fans out to every reconciler concurrently and waits for all of them. A panic in
// one reconciler becomes an error outcome for that domain only. A non-forced SyncAll
// requested while another one is active is dropped with ErrSyncInProgress; forced runs
// always proceed.
//
// # Usage Example
//
//	coord := coordinator.New(gateway,
//	    coordinator.WithPeriodicSync(true, 5*time.Minute),
//	    coordinator.WithTeamProvider(backendClient),
//	)
//	defer coord.Stop()
//
//	stop := coord.StartPeriodicSync(ctx, 0)
//	defer stop()
//
//	report, err := coord.SyncAll(ctx, true, nil)
//
// # Lifecycle
//
// Reset clears the session state and cancels pending post-write reconciliations (logout).
// Stop cancels every background goroutine and waits for them.
package coordinator
