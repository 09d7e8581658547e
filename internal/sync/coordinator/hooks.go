package coordinator

import (
	"context"
	"log/slog"

	pkgsync "github.com/agilechain/chainsync/internal/sync"
)

// SyncBeforeTransaction runs the forced reconciliation ahead of a ledger write and
// reports whether it succeeded. The caller may proceed with the write either way.
func (c *defaultCoordinator) SyncBeforeTransaction(ctx context.Context, domain pkgsync.Domain) bool {
	if !domain.IsReconcilable() {
		report, err := c.SyncAll(ctx, true, nil)
		if err != nil {
			slog.Warn("Pre-write sync failed", "domain", domain, "error", err)
			return false
		}
		return report.OK()
	}

	out, err := c.SyncDomain(ctx, domain, true, nil)
	if err != nil {
		slog.Warn("Pre-write sync failed", "domain", domain, "error", err)
		return false
	}
	if !out.OK {
		slog.Warn("Pre-write sync did not verify domain", "domain", domain, "reason", out.Reason)
	}
	return out.OK
}

// SyncAfterTransaction schedules the forced reconciliation of domain once the post-write
// delay has elapsed. It returns immediately; the returned function cancels the pending run.
func (c *defaultCoordinator) SyncAfterTransaction(domain pkgsync.Domain) context.CancelFunc {
	taskCtx, cancel := context.WithCancel(c.lifeCtx)

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		cancel()
		slog.Debug("Coordinator stopped, post-write sync not scheduled", "domain", domain)
		return cancel
	}
	c.nextTaskID++
	id := c.nextTaskID
	c.pending[id] = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	// The timer is created before returning so the delay starts at the write
	timer := c.clock.NewTimer(c.postWriteDelay)
	go func() {
		defer c.wg.Done()
		defer c.forgetTask(id)
		defer timer.Stop()

		select {
		case <-taskCtx.Done():
			slog.Debug("Post-write sync cancelled", "domain", domain)
			return
		case <-timer.C():
		}
		if taskCtx.Err() != nil {
			return
		}

		c.runPostWrite(taskCtx, domain)
	}()

	return func() {
		cancel()
		c.forgetTask(id)
	}
}

func (c *defaultCoordinator) runPostWrite(ctx context.Context, domain pkgsync.Domain) {
	start := c.clock.Now()
	if !domain.IsReconcilable() {
		if _, err := c.SyncAll(ctx, true, nil); err != nil {
			slog.Warn("Post-write sync failed", "domain", domain, "error", err)
		}
		return
	}

	out, err := c.SyncDomain(ctx, domain, true, nil)
	if err != nil {
		slog.Warn("Post-write sync failed", "domain", domain, "error", err)
		return
	}
	slog.Debug("Post-write sync finished",
		"domain", domain,
		"ok", out.OK,
		"reason", out.Reason,
		"elapsed", c.clock.Since(start))
}

func (c *defaultCoordinator) forgetTask(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
