package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agilechain/chainsync/internal/otel"
	"github.com/agilechain/chainsync/internal/status"
	pkgsync "github.com/agilechain/chainsync/internal/sync"
)

// SyncAll reconciles every domain concurrently and aggregates the outcomes into a report
func (c *defaultCoordinator) SyncAll(ctx context.Context, force bool, team *pkgsync.Team) (*status.Report, error) {
	if !c.acquire(force) {
		slog.Debug("Sync already in progress, dropping request", "forced", force)
		c.syncMetrics.RecordSyncRun(ctx, force, "dropped")
		return nil, ErrSyncInProgress
	}
	defer c.active.Add(-1)

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	report := status.NewReport(force, c.throttle.Now())
	ctx, span := otel.StartSpan(ctx, c.tracer, "coordinator.SyncAll",
		trace.WithAttributes(
			otel.AttrSyncID.String(report.SyncID),
			otel.AttrSyncForced.Bool(force),
		))
	defer span.End()

	team = c.resolveTeam(ctx, team)
	req := pkgsync.Request{Force: force, Team: team}

	// Each goroutine writes its own slot so the report keeps the domain order
	outcomes := make([]pkgsync.Outcome, len(c.order))
	var g errgroup.Group
	for i, domain := range c.order {
		g.Go(func() error {
			outcomes[i] = c.runReconciler(ctx, c.reconcilers[domain], req)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		report.Add(o)
	}
	report.Duration = c.throttle.Now().Sub(report.StartedAt)

	result := "ok"
	if !report.OK() {
		result = "failed"
	}
	slog.Info("Sync finished",
		"sync_id", report.SyncID,
		"forced", force,
		"summary", report.Summary(),
		"duration", report.Duration)
	span.SetAttributes(otel.AttrSyncOK.Bool(report.OK()), otel.AttrResultCount.Int(len(report.Outcomes)))

	c.mu.Lock()
	if gen == c.generation {
		c.lastReport = report
	}
	c.mu.Unlock()

	if c.reportStore != nil {
		if err := c.reportStore.SaveReport(ctx, report); err != nil {
			slog.Warn("Failed to persist sync report", "sync_id", report.SyncID, "error", err)
		}
	}
	c.syncMetrics.RecordSyncRun(ctx, force, result)

	return report, nil
}

// SyncDomain reconciles a single domain. It does not touch the syncing flag.
func (c *defaultCoordinator) SyncDomain(
	ctx context.Context, domain pkgsync.Domain, force bool, team *pkgsync.Team,
) (pkgsync.Outcome, error) {
	r, ok := c.reconcilers[domain]
	if !ok {
		return pkgsync.Outcome{}, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}

	if domain == pkgsync.DomainTeam {
		team = c.resolveTeam(ctx, team)
	}
	return c.runReconciler(ctx, r, pkgsync.Request{Force: force, Team: team}), nil
}

// acquire takes the syncing flag. Forced runs always proceed; non-forced runs are
// dropped while another run is active.
func (c *defaultCoordinator) acquire(force bool) bool {
	if force {
		c.active.Add(1)
		return true
	}
	return c.active.CompareAndSwap(0, 1)
}

// resolveTeam falls back to the team provider when the caller supplies no team
func (c *defaultCoordinator) resolveTeam(ctx context.Context, team *pkgsync.Team) *pkgsync.Team {
	if team != nil || c.teamProvider == nil {
		return team
	}
	current, err := c.teamProvider.CurrentTeam(ctx)
	if err != nil {
		slog.Warn("Failed to load current team", "error", err)
		return nil
	}
	return current
}

// runReconciler runs one reconciler in isolation. A panic becomes an error outcome for
// that domain and never reaches the other domains.
func (c *defaultCoordinator) runReconciler(ctx context.Context, r pkgsync.Reconciler, req pkgsync.Request) (out pkgsync.Outcome) {
	domain := r.Domain()
	ctx, span := otel.StartSpan(ctx, c.tracer, "coordinator.reconcile",
		trace.WithAttributes(
			otel.AttrSyncDomain.String(domain.String()),
			otel.AttrSyncForced.Bool(req.Force),
		))
	start := c.throttle.Now()

	c.mu.Lock()
	c.inFlight[domain]++
	gen := c.generation
	c.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Reconciler panicked", "domain", domain, "panic", rec)
			out = pkgsync.Outcome{
				Domain:    domain,
				Reason:    pkgsync.ReasonReconcilerPanic,
				Message:   fmt.Sprint(rec),
				StartedAt: start,
				Duration:  c.throttle.Now().Sub(start),
			}
			otel.RecordError(span, fmt.Errorf("reconciler panic: %v", rec))
		}

		c.mu.Lock()
		c.inFlight[domain]--
		if gen == c.generation {
			c.lastOutcomes[domain] = out
		}
		c.mu.Unlock()

		span.SetAttributes(
			otel.AttrSyncReason.String(string(out.Reason)),
			otel.AttrSyncOK.Bool(out.OK),
		)
		if req.Team != nil {
			span.SetAttributes(otel.AttrTeamID.Int64(req.Team.ID))
		}
		span.End()
		c.syncMetrics.RecordReconcile(ctx, domain.String(), string(out.Reason), out.Duration, out.OK)
	}()

	return r.Reconcile(ctx, req)
}
