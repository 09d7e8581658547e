package coordinator

import (
	"context"
	"log/slog"
	"time"
)

// StartPeriodicSync starts the periodic forced reconciliation of every domain. It is a
// no-op when periodic sync is disabled. A non-positive interval selects the configured one.
// The returned function stops future ticks; a run already in progress completes.
func (c *defaultCoordinator) StartPeriodicSync(ctx context.Context, interval time.Duration) context.CancelFunc {
	if !c.periodicEnabled {
		slog.Info("Periodic sync is disabled")
		return func() {}
	}
	if interval <= 0 {
		interval = c.periodicInterval
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		slog.Info("Coordinator stopped, periodic sync not started")
		return func() {}
	}
	c.wg.Add(1)
	c.mu.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	ticker := c.clock.NewTicker(interval)
	c.periodicRunning.Add(1)

	slog.Info("Starting periodic sync", "interval", interval)

	go func() {
		defer c.wg.Done()
		defer c.periodicRunning.Add(-1)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				slog.Info("Periodic sync stopped")
				return
			case <-c.lifeCtx.Done():
				return
			case <-ticker.C():
			}

			// A tick may race with cancellation
			if loopCtx.Err() != nil {
				return
			}
			c.periodicTick(loopCtx)
		}
	}()

	return cancel
}

func (c *defaultCoordinator) periodicTick(ctx context.Context) {
	// Stopping the ticker does not interrupt a run in progress
	report, err := c.SyncAll(context.WithoutCancel(ctx), true, nil)
	if err != nil {
		slog.Warn("Periodic sync failed", "error", err)
		return
	}
	slog.Debug("Periodic sync finished", "sync_id", report.SyncID, "summary", report.Summary())
}
