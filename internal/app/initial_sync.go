package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/agilechain/chainsync/internal/status"
	"github.com/agilechain/chainsync/internal/sync/coordinator"
)

// RunInitialSync runs the forced reconciliation of every domain performed on startup.
// Failures are logged per domain; the client keeps running with whatever state the
// ledger allowed to verify.
func RunInitialSync(ctx context.Context, coord coordinator.Coordinator) *status.Report {
	slog.Info("Running initial sync of all domains")

	report, err := coord.SyncAll(ctx, true, nil)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("Initial sync failed", "error", err)
		}
		return nil
	}

	for _, o := range report.Outcomes {
		if !o.OK {
			slog.Warn("Domain not verified on startup",
				"domain", o.Domain,
				"reason", o.Reason,
				"message", o.Message,
			)
		}
	}

	if report.OK() {
		slog.Info("Initial sync completed", "summary", report.Summary())
	} else {
		slog.Warn("Initial sync completed with failures", "summary", report.Summary())
	}
	return report
}
