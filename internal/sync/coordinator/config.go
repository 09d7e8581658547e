package coordinator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"k8s.io/utils/clock"

	"github.com/agilechain/chainsync/internal/status"
	pkgsync "github.com/agilechain/chainsync/internal/sync"
	"github.com/agilechain/chainsync/internal/sync/breaker"
	"github.com/agilechain/chainsync/internal/telemetry"
)

const (
	// DefaultPostWriteDelay is the grace period before re-verifying a domain after a write
	DefaultPostWriteDelay = 2 * time.Second

	// DefaultPeriodicInterval is the interval of the periodic reconciliation of all domains
	DefaultPeriodicInterval = 5 * time.Minute

	// TracerName is the name used for the reconciliation tracer
	TracerName = "github.com/agilechain/chainsync/sync"
)

// TeamProvider returns the backend team of the current user
type TeamProvider interface {
	CurrentTeam(ctx context.Context) (*pkgsync.Team, error)
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithClock sets the clock used for throttling, cooldowns, delays and tickers
func WithClock(clk clock.WithTicker) Option {
	return func(c *defaultCoordinator) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithThrottleWindow sets the minimum interval between non-forced reconciliations of a domain
func WithThrottleWindow(window time.Duration) Option {
	return func(c *defaultCoordinator) {
		c.throttleWindow = window
	}
}

// WithPostWriteDelay sets the delay before the reconciliation that follows a write
func WithPostWriteDelay(delay time.Duration) Option {
	return func(c *defaultCoordinator) {
		if delay >= 0 {
			c.postWriteDelay = delay
		}
	}
}

// WithPeriodicSync enables or disables the periodic reconciliation and sets its default interval
func WithPeriodicSync(enabled bool, interval time.Duration) Option {
	return func(c *defaultCoordinator) {
		c.periodicEnabled = enabled
		if interval > 0 {
			c.periodicInterval = interval
		}
	}
}

// WithTeamProvider sets the source of the current team when callers do not supply one
func WithTeamProvider(provider TeamProvider) Option {
	return func(c *defaultCoordinator) {
		c.teamProvider = provider
	}
}

// WithReportStore persists every report of a reconciliation of all domains
func WithReportStore(store status.ReportStore) Option {
	return func(c *defaultCoordinator) {
		c.reportStore = store
	}
}

// WithSyncMetrics sets the sync metrics for the coordinator
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(c *defaultCoordinator) {
		c.syncMetrics = metrics
	}
}

// WithTracer sets the tracer used for reconciliation spans
func WithTracer(tracer trace.Tracer) Option {
	return func(c *defaultCoordinator) {
		c.tracer = tracer
	}
}

// WithBreakerOptions configures the owned circuit-breaker recovery
func WithBreakerOptions(opts ...breaker.Option) Option {
	return func(c *defaultCoordinator) {
		c.breakerOpts = append(c.breakerOpts, opts...)
	}
}

// WithReconcilers replaces the default domain reconcilers. The factory receives the
// coordinator-owned throttle state.
func WithReconcilers(factory ReconcilerFactory) Option {
	return func(c *defaultCoordinator) {
		c.reconcilerFactory = factory
	}
}
