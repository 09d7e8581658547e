package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	"k8s.io/utils/clock"

	"github.com/agilechain/chainsync/internal/ledger"
	"github.com/agilechain/chainsync/internal/status"
	pkgsync "github.com/agilechain/chainsync/internal/sync"
	"github.com/agilechain/chainsync/internal/sync/breaker"
	"github.com/agilechain/chainsync/internal/sync/throttle"
	"github.com/agilechain/chainsync/internal/telemetry"
)

var (
	// ErrSyncInProgress is returned when a non-forced reconciliation of all domains is
	// requested while another one is in flight. The request is dropped, not queued.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrUnknownDomain is returned when a single-domain operation names no reconcilable domain
	ErrUnknownDomain = errors.New("unknown sync domain")
)

// ReconcilerFactory builds the domain reconcilers around the coordinator's throttle state
type ReconcilerFactory func(th *throttle.State[pkgsync.Domain]) []pkgsync.Reconciler

// Coordinator decides when local state is reconciled against the ledger. It owns the
// throttle state, the circuit-breaker state, the domain reconcilers and the pending
// post-write reconciliations.
//
//go:generate mockgen -destination=mocks/mock_coordinator.go -package=mocks github.com/agilechain/chainsync/internal/sync/coordinator Coordinator
type Coordinator interface {
	// SyncAll reconciles every domain concurrently.
	// Returns ErrSyncInProgress when force is false and another SyncAll is active.
	SyncAll(ctx context.Context, force bool, team *pkgsync.Team) (*status.Report, error)

	// SyncDomain reconciles a single domain
	SyncDomain(ctx context.Context, domain pkgsync.Domain, force bool, team *pkgsync.Team) (pkgsync.Outcome, error)

	// SyncBeforeTransaction runs the forced reconciliation of domain ahead of a write.
	// Unknown domains and DomainAll reconcile every domain. The result is advisory.
	SyncBeforeTransaction(ctx context.Context, domain pkgsync.Domain) bool

	// SyncAfterTransaction schedules the forced reconciliation of domain after the
	// post-write delay and returns immediately. The returned function cancels it.
	SyncAfterTransaction(domain pkgsync.Domain) context.CancelFunc

	// StartPeriodicSync installs the periodic forced reconciliation of every domain when
	// it is enabled. The returned function stops future ticks.
	StartPeriodicSync(ctx context.Context, interval time.Duration) context.CancelFunc

	// OnCircuitBreakerDetected handles one observed circuit-breaker occurrence and
	// reports whether the ledger network was reset
	OnCircuitBreakerDetected(ctx context.Context) bool

	// Syncing reports whether a SyncAll is in flight
	Syncing() bool

	// Status returns a snapshot of the coordinator state
	Status() *status.Snapshot

	// Reset clears all session state (logout)
	Reset()

	// Stop cancels background work and waits for it to finish
	Stop() error
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	clock            clock.WithTicker
	throttleWindow   time.Duration
	postWriteDelay   time.Duration
	periodicEnabled  bool
	periodicInterval time.Duration

	throttle    *throttle.State[pkgsync.Domain]
	breaker     *breaker.Recovery
	breakerOpts []breaker.Option

	reconcilerFactory ReconcilerFactory
	reconcilers       map[pkgsync.Domain]pkgsync.Reconciler
	order             []pkgsync.Domain

	teamProvider TeamProvider
	reportStore  status.ReportStore
	syncMetrics  *telemetry.SyncMetrics
	tracer       trace.Tracer

	// active counts in-flight SyncAll calls; it backs the syncing flag
	active          atomic.Int32
	periodicRunning atomic.Int32

	mu           sync.Mutex
	lastOutcomes map[pkgsync.Domain]pkgsync.Outcome
	inFlight     map[pkgsync.Domain]int
	lastReport   *status.Report
	pending      map[uint64]context.CancelFunc
	nextTaskID   uint64

	// generation advances on Reset; outcomes started before it are not recorded
	generation uint64
	stopped    bool

	// Lifecycle management
	lifeCtx    context.Context
	lifeCancel context.CancelFunc
	wg         sync.WaitGroup
}

// New creates the coordinator. The gateway backs the default reconcilers and the
// network reset of the circuit-breaker recovery.
func New(gateway ledger.Gateway, opts ...Option) Coordinator {
	c := &defaultCoordinator{
		clock:            clock.RealClock{},
		throttleWindow:   throttle.DefaultWindow,
		postWriteDelay:   DefaultPostWriteDelay,
		periodicInterval: DefaultPeriodicInterval,
		lastOutcomes:     make(map[pkgsync.Domain]pkgsync.Outcome),
		inFlight:         make(map[pkgsync.Domain]int),
		pending:          make(map[uint64]context.CancelFunc),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.throttle = throttle.New[pkgsync.Domain](c.throttleWindow, c.clock)

	var reconcilers []pkgsync.Reconciler
	if c.reconcilerFactory != nil {
		reconcilers = c.reconcilerFactory(c.throttle)
	} else {
		reconcilers = pkgsync.NewReconcilers(gateway, c.throttle)
	}
	c.reconcilers = make(map[pkgsync.Domain]pkgsync.Reconciler, len(reconcilers))
	for _, r := range reconcilers {
		c.reconcilers[r.Domain()] = r
		c.order = append(c.order, r.Domain())
	}

	breakerOpts := append([]breaker.Option{
		breaker.WithClock(c.clock),
		breaker.WithResetObserver(func(ctx context.Context, success bool) {
			c.syncMetrics.RecordBreakerReset(ctx, success)
		}),
	}, c.breakerOpts...)
	c.breaker = breaker.New(gateway, breakerOpts...)

	c.lifeCtx, c.lifeCancel = context.WithCancel(context.Background())

	return c
}

// Syncing reports whether a SyncAll is in flight
func (c *defaultCoordinator) Syncing() bool {
	return c.active.Load() > 0
}

// OnCircuitBreakerDetected delegates to the owned circuit-breaker recovery
func (c *defaultCoordinator) OnCircuitBreakerDetected(ctx context.Context) bool {
	reset := c.breaker.OnDetected(ctx)
	c.syncMetrics.RecordBreakerFailures(ctx, c.breaker.State().FailureCount)
	return reset
}

// Status returns a snapshot of the coordinator state
func (c *defaultCoordinator) Status() *status.Snapshot {
	lastSync := c.throttle.Snapshot()
	breakerState := c.breaker.State()

	c.mu.Lock()
	defer c.mu.Unlock()

	snap := &status.Snapshot{
		Syncing:        c.Syncing(),
		PeriodicSync:   c.periodicRunning.Load() > 0,
		Domains:        make(map[pkgsync.Domain]status.DomainStatus, len(c.order)),
		CircuitBreaker: breakerState,
		LastReport:     c.lastReport,
	}
	for _, d := range c.order {
		ds := status.DomainStatus{Phase: status.SyncPhasePending}
		if t, ok := lastSync[d]; ok {
			ds.LastSync = &t
		}
		if o, ok := c.lastOutcomes[d]; ok {
			ds.LastOutcome = &o
			ds.Phase = status.PhaseOf(&o)
		}
		if c.inFlight[d] > 0 {
			ds.Phase = status.SyncPhaseSyncing
		}
		snap.Domains[d] = ds
	}
	return snap
}

// Reset clears the throttle state, the circuit-breaker state and the last outcomes,
// and cancels every pending post-write reconciliation
func (c *defaultCoordinator) Reset() {
	c.throttle.Reset()
	c.breaker.Reset()

	c.mu.Lock()
	c.generation++
	clear(c.lastOutcomes)
	c.lastReport = nil
	cancels := c.drainPendingLocked()
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	slog.Info("Sync state reset", "cancelled_tasks", len(cancels))
}

// Stop cancels the lifecycle context and waits for the periodic loop and pending tasks
func (c *defaultCoordinator) Stop() error {
	slog.Info("Stopping sync coordinator")
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
	c.lifeCancel()
	c.wg.Wait()
	return nil
}

func (c *defaultCoordinator) drainPendingLocked() []context.CancelFunc {
	cancels := make([]context.CancelFunc, 0, len(c.pending))
	for id, cancel := range c.pending {
		cancels = append(cancels, cancel)
		delete(c.pending, id)
	}
	return cancels
}
