package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	clocktesting "k8s.io/utils/clock/testing"

	ledgermocks "github.com/agilechain/chainsync/internal/ledger/mocks"
	"github.com/agilechain/chainsync/internal/status"
	statusmocks "github.com/agilechain/chainsync/internal/status/mocks"
	pkgsync "github.com/agilechain/chainsync/internal/sync"
	"github.com/agilechain/chainsync/internal/sync/breaker"
	syncmocks "github.com/agilechain/chainsync/internal/sync/mocks"
	"github.com/agilechain/chainsync/internal/sync/throttle"
)

const waitTimeout = 2 * time.Second

var testTeam = &pkgsync.Team{ID: 7, Name: "Equipe Alfa", BlockchainID: 3}

type fakeTeamProvider struct {
	team *pkgsync.Team
	err  error
}

func (p *fakeTeamProvider) CurrentTeam(context.Context) (*pkgsync.Team, error) {
	return p.team, p.err
}

// newMockReconcilers returns one mock per domain and a factory installing them
func newMockReconcilers(ctrl *gomock.Controller) (map[pkgsync.Domain]*syncmocks.MockReconciler, ReconcilerFactory) {
	mocks := make(map[pkgsync.Domain]*syncmocks.MockReconciler)
	list := make([]pkgsync.Reconciler, 0, len(pkgsync.AllDomains()))
	for _, d := range pkgsync.AllDomains() {
		m := syncmocks.NewMockReconciler(ctrl)
		m.EXPECT().Domain().Return(d).AnyTimes()
		mocks[d] = m
		list = append(list, m)
	}
	return mocks, func(*throttle.State[pkgsync.Domain]) []pkgsync.Reconciler { return list }
}

func outcome(d pkgsync.Domain, ok bool, reason pkgsync.Reason) pkgsync.Outcome {
	return pkgsync.Outcome{Domain: d, OK: ok, Reason: reason}
}

func newTestCoordinator(
	t *testing.T, ctrl *gomock.Controller, opts ...Option,
) (*defaultCoordinator, map[pkgsync.Domain]*syncmocks.MockReconciler, *clocktesting.FakeClock) {
	t.Helper()
	mocks, factory := newMockReconcilers(ctrl)
	clk := clocktesting.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	all := append([]Option{WithClock(clk), WithReconcilers(factory)}, opts...)
	c, ok := New(ledgermocks.NewMockGateway(ctrl), all...).(*defaultCoordinator)
	require.True(t, ok)
	t.Cleanup(func() { _ = c.Stop() })
	return c, mocks, clk
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for reconciliation")
	}
}

func TestCoordinator_New_DefaultReconcilers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c, ok := New(ledgermocks.NewMockGateway(ctrl)).(*defaultCoordinator)
	require.True(t, ok)
	defer func() { _ = c.Stop() }()

	assert.Equal(t, pkgsync.AllDomains(), c.order)
	assert.Len(t, c.reconcilers, 4)
	assert.Equal(t, throttle.DefaultWindow, c.throttle.Window())
	assert.False(t, c.Syncing())
}

func TestSyncAll_AggregatesOutcomes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	store := statusmocks.NewMockReportStore(ctrl)
	c, mocks, _ := newTestCoordinator(t, ctrl, WithReportStore(store))

	want := pkgsync.Request{Force: true, Team: testTeam}
	mocks[pkgsync.DomainTeam].EXPECT().Reconcile(gomock.Any(), want).
		Return(outcome(pkgsync.DomainTeam, true, pkgsync.ReasonVerified))
	mocks[pkgsync.DomainSprints].EXPECT().Reconcile(gomock.Any(), want).
		Return(outcome(pkgsync.DomainSprints, true, pkgsync.ReasonVerified))
	mocks[pkgsync.DomainTasks].EXPECT().Reconcile(gomock.Any(), want).
		Return(outcome(pkgsync.DomainTasks, true, pkgsync.ReasonVerified))
	mocks[pkgsync.DomainBacklog].EXPECT().Reconcile(gomock.Any(), want).
		Return(outcome(pkgsync.DomainBacklog, false, pkgsync.ReasonContractUnavailable))

	var saved *status.Report
	store.EXPECT().SaveReport(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *status.Report) error {
			saved = r
			return nil
		})

	report, err := c.SyncAll(context.Background(), true, testTeam)
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.Equal(t, "3/4 sucessos, 1 falhas, 0 erros", report.Summary())
	require.Len(t, report.Outcomes, 4)
	for i, d := range pkgsync.AllDomains() {
		assert.Equal(t, d, report.Outcomes[i].Domain)
	}
	assert.Same(t, report, saved)
	assert.False(t, c.Syncing())

	snap := c.Status()
	assert.Same(t, report, snap.LastReport)
	assert.Equal(t, status.SyncPhaseComplete, snap.Domains[pkgsync.DomainSprints].Phase)
	assert.Equal(t, status.SyncPhaseFailed, snap.Domains[pkgsync.DomainBacklog].Phase)
}

func TestSyncAll_PanicIsolated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c, mocks, _ := newTestCoordinator(t, ctrl)

	for _, d := range []pkgsync.Domain{pkgsync.DomainTeam, pkgsync.DomainSprints, pkgsync.DomainBacklog} {
		mocks[d].EXPECT().Reconcile(gomock.Any(), gomock.Any()).Return(outcome(d, true, pkgsync.ReasonVerified))
	}
	mocks[pkgsync.DomainTasks].EXPECT().Reconcile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, pkgsync.Request) pkgsync.Outcome {
			panic("boom")
		})

	report, err := c.SyncAll(context.Background(), true, testTeam)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Succeeded)
	assert.Equal(t, 1, report.Errored)
	tasks, ok := report.Outcome(pkgsync.DomainTasks)
	require.True(t, ok)
	assert.False(t, tasks.OK)
	assert.Equal(t, pkgsync.ReasonReconcilerPanic, tasks.Reason)
	assert.Equal(t, "boom", tasks.Message)
}

func TestSyncAll_TeamFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider *fakeTeamProvider
		wantTeam *pkgsync.Team
	}{
		{
			name:     "provider supplies team",
			provider: &fakeTeamProvider{team: testTeam},
			wantTeam: testTeam,
		},
		{
			name:     "provider error leaves team empty",
			provider: &fakeTeamProvider{err: errors.New("backend down")},
			wantTeam: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			c, mocks, _ := newTestCoordinator(t, ctrl, WithTeamProvider(tt.provider))

			for d, m := range mocks {
				m.EXPECT().Reconcile(gomock.Any(), pkgsync.Request{Force: false, Team: tt.wantTeam}).
					Return(outcome(d, true, pkgsync.ReasonThrottledStillValid))
			}

			report, err := c.SyncAll(context.Background(), false, nil)
			require.NoError(t, err)
			assert.True(t, report.OK())
		})
	}
}

func TestSyncAll_NonForcedDroppedWhileSyncing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c, mocks, _ := newTestCoordinator(t, ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	mocks[pkgsync.DomainSprints].EXPECT().Reconcile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, pkgsync.Request) pkgsync.Outcome {
			close(started)
			<-release
			return outcome(pkgsync.DomainSprints, true, pkgsync.ReasonVerified)
		})
	for _, d := range []pkgsync.Domain{pkgsync.DomainTeam, pkgsync.DomainTasks, pkgsync.DomainBacklog} {
		mocks[d].EXPECT().Reconcile(gomock.Any(), gomock.Any()).Return(outcome(d, true, pkgsync.ReasonVerified))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.SyncAll(context.Background(), false, testTeam)
	}()

	waitFor(t, started)
	assert.True(t, c.Syncing())
	assert.Equal(t, status.SyncPhaseSyncing, c.Status().Domains[pkgsync.DomainSprints].Phase)

	report, err := c.SyncAll(context.Background(), false, testTeam)
	assert.ErrorIs(t, err, ErrSyncInProgress)
	assert.Nil(t, report)

	close(release)
	waitFor(t, done)
	assert.False(t, c.Syncing())
}

func TestSyncDomain(t *testing.T) {
	t.Parallel()

	t.Run("reconciles only the named domain", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		c, mocks, _ := newTestCoordinator(t, ctrl)

		mocks[pkgsync.DomainBacklog].EXPECT().Reconcile(gomock.Any(), pkgsync.Request{Force: true}).
			Return(outcome(pkgsync.DomainBacklog, true, pkgsync.ReasonVerified))

		out, err := c.SyncDomain(context.Background(), pkgsync.DomainBacklog, true, nil)
		require.NoError(t, err)
		assert.True(t, out.OK)
		assert.Nil(t, c.Status().LastReport)
	})

	t.Run("team domain resolves the current team", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		c, mocks, _ := newTestCoordinator(t, ctrl, WithTeamProvider(&fakeTeamProvider{team: testTeam}))

		mocks[pkgsync.DomainTeam].EXPECT().Reconcile(gomock.Any(), pkgsync.Request{Team: testTeam}).
			Return(outcome(pkgsync.DomainTeam, true, pkgsync.ReasonVerified))

		_, err := c.SyncDomain(context.Background(), pkgsync.DomainTeam, false, nil)
		require.NoError(t, err)
	})

	t.Run("unknown domain", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		c, _, _ := newTestCoordinator(t, ctrl)

		_, err := c.SyncDomain(context.Background(), pkgsync.DomainAll, false, nil)
		assert.ErrorIs(t, err, ErrUnknownDomain)
	})
}

func TestSyncBeforeTransaction(t *testing.T) {
	t.Parallel()

	t.Run("single domain", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		c, mocks, _ := newTestCoordinator(t, ctrl)

		mocks[pkgsync.DomainTasks].EXPECT().Reconcile(gomock.Any(), pkgsync.Request{Force: true}).
			Return(outcome(pkgsync.DomainTasks, false, pkgsync.ReasonNoActiveAccount))

		assert.False(t, c.SyncBeforeTransaction(context.Background(), pkgsync.DomainTasks))
	})

	t.Run("all domains", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		c, mocks, _ := newTestCoordinator(t, ctrl)

		for d, m := range mocks {
			m.EXPECT().Reconcile(gomock.Any(), pkgsync.Request{Force: true}).
				Return(outcome(d, true, pkgsync.ReasonVerified))
		}

		assert.True(t, c.SyncBeforeTransaction(context.Background(), pkgsync.DomainAll))
	})
}

func TestSyncAfterTransaction_WaitsForDelay(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c, mocks, clk := newTestCoordinator(t, ctrl, WithPostWriteDelay(2*time.Second))

	ran := make(chan struct{})
	mocks[pkgsync.DomainSprints].EXPECT().Reconcile(gomock.Any(), pkgsync.Request{Force: true}).DoAndReturn(
		func(context.Context, pkgsync.Request) pkgsync.Outcome {
			close(ran)
			return outcome(pkgsync.DomainSprints, true, pkgsync.ReasonVerified)
		})

	cancel := c.SyncAfterTransaction(pkgsync.DomainSprints)
	defer cancel()

	clk.Step(time.Second)
	select {
	case <-ran:
		t.Fatal("post-write sync ran before the delay elapsed")
	case <-time.After(50 * time.Millisecond):
	}

	clk.Step(time.Second)
	waitFor(t, ran)
}

func TestSyncAfterTransaction_Cancelled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cancel func(c *defaultCoordinator, cancel context.CancelFunc)
	}{
		{
			name:   "cancel function",
			cancel: func(_ *defaultCoordinator, cancel context.CancelFunc) { cancel() },
		},
		{
			name:   "reset",
			cancel: func(c *defaultCoordinator, _ context.CancelFunc) { c.Reset() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			c, mocks, clk := newTestCoordinator(t, ctrl)
			mocks[pkgsync.DomainTasks].EXPECT().Reconcile(gomock.Any(), gomock.Any()).Times(0)

			cancel := c.SyncAfterTransaction(pkgsync.DomainTasks)
			tt.cancel(c, cancel)
			clk.Step(DefaultPostWriteDelay)

			require.NoError(t, c.Stop())
			c.mu.Lock()
			assert.Empty(t, c.pending)
			c.mu.Unlock()
		})
	}
}

func TestStartPeriodicSync(t *testing.T) {
	t.Parallel()

	t.Run("disabled is a no-op", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		c, _, _ := newTestCoordinator(t, ctrl)

		stop := c.StartPeriodicSync(context.Background(), time.Minute)
		stop()
		assert.False(t, c.Status().PeriodicSync)
	})

	t.Run("tick forces every domain", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		c, mocks, clk := newTestCoordinator(t, ctrl, WithPeriodicSync(true, time.Minute))

		ran := make(chan struct{}, len(mocks))
		for d, m := range mocks {
			m.EXPECT().Reconcile(gomock.Any(), pkgsync.Request{Force: true}).DoAndReturn(
				func(context.Context, pkgsync.Request) pkgsync.Outcome {
					ran <- struct{}{}
					return outcome(d, true, pkgsync.ReasonVerified)
				})
		}

		stop := c.StartPeriodicSync(context.Background(), 0)
		assert.True(t, c.Status().PeriodicSync)

		clk.Step(time.Minute)
		for range mocks {
			select {
			case <-ran:
			case <-time.After(waitTimeout):
				t.Fatal("timed out waiting for periodic sync")
			}
		}

		stop()
		require.NoError(t, c.Stop())
		assert.False(t, c.Status().PeriodicSync)
	})
}

func TestOnCircuitBreakerDetected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gateway := ledgermocks.NewMockGateway(ctrl)
	_, factory := newMockReconcilers(ctrl)
	clk := clocktesting.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	c := New(gateway,
		WithClock(clk),
		WithReconcilers(factory),
		WithBreakerOptions(breaker.WithThreshold(2)),
	)
	defer func() { _ = c.Stop() }()

	gateway.EXPECT().ResetNetwork(gomock.Any()).Return(true, nil)

	ctx := context.Background()
	assert.False(t, c.OnCircuitBreakerDetected(ctx))
	assert.Equal(t, 1, c.Status().CircuitBreaker.FailureCount)

	assert.True(t, c.OnCircuitBreakerDetected(ctx))
	state := c.Status().CircuitBreaker
	assert.Equal(t, 0, state.FailureCount)
	require.NotNil(t, state.LastResetAttempt)
	assert.Equal(t, clk.Now(), *state.LastResetAttempt)
}

func TestReset_ClearsSessionState(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c, mocks, _ := newTestCoordinator(t, ctrl)
	for d, m := range mocks {
		m.EXPECT().Reconcile(gomock.Any(), gomock.Any()).Return(outcome(d, true, pkgsync.ReasonVerified))
	}

	_, err := c.SyncAll(context.Background(), true, testTeam)
	require.NoError(t, err)
	c.throttle.Record(pkgsync.DomainSprints, c.throttle.Now())

	c.Reset()

	snap := c.Status()
	assert.Nil(t, snap.LastReport)
	for _, d := range pkgsync.AllDomains() {
		assert.Equal(t, status.SyncPhasePending, snap.Domains[d].Phase)
		assert.Nil(t, snap.Domains[d].LastSync)
	}
}

func TestSyncAll_ReleasesFlagWhenEveryDomainFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reconcile func(d pkgsync.Domain) pkgsync.Outcome
		wantFail  int
		wantError int
	}{
		{
			name:      "every domain fails",
			reconcile: func(d pkgsync.Domain) pkgsync.Outcome { return outcome(d, false, pkgsync.ReasonLedgerError) },
			wantFail:  4,
		},
		{
			name:      "every domain panics",
			reconcile: func(pkgsync.Domain) pkgsync.Outcome { panic("ledger exploded") },
			wantError: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			c, mocks, _ := newTestCoordinator(t, ctrl)
			for d, m := range mocks {
				gomock.InOrder(
					m.EXPECT().Reconcile(gomock.Any(), gomock.Any()).DoAndReturn(
						func(context.Context, pkgsync.Request) pkgsync.Outcome { return tt.reconcile(d) }),
					m.EXPECT().Reconcile(gomock.Any(), pkgsync.Request{Force: false, Team: testTeam}).
						Return(outcome(d, true, pkgsync.ReasonVerified)),
				)
			}

			report, err := c.SyncAll(context.Background(), false, testTeam)
			require.NoError(t, err)
			assert.False(t, report.OK())
			assert.Equal(t, tt.wantFail, report.Failed)
			assert.Equal(t, tt.wantError, report.Errored)
			assert.False(t, c.Syncing(), "syncing flag released after a fully failed run")

			report, err = c.SyncAll(context.Background(), false, testTeam)
			require.NoError(t, err, "the next non-forced run must not be dropped")
			assert.True(t, report.OK())
			assert.False(t, c.Syncing())
		})
	}
}

func TestStatus_NotBlockedByNetworkReset(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gateway := ledgermocks.NewMockGateway(ctrl)
	mocks, factory := newMockReconcilers(ctrl)
	clk := clocktesting.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	c := New(gateway,
		WithClock(clk),
		WithReconcilers(factory),
		WithBreakerOptions(breaker.WithThreshold(1)),
	)
	defer func() { _ = c.Stop() }()

	resetStarted := make(chan struct{})
	releaseReset := make(chan struct{})
	gateway.EXPECT().ResetNetwork(gomock.Any()).DoAndReturn(func(context.Context) (bool, error) {
		close(resetStarted)
		<-releaseReset
		return true, nil
	})
	mocks[pkgsync.DomainSprints].EXPECT().Reconcile(gomock.Any(), pkgsync.Request{Force: true}).
		Return(outcome(pkgsync.DomainSprints, true, pkgsync.ReasonVerified))

	resetDone := make(chan struct{})
	go func() {
		defer close(resetDone)
		assert.True(t, c.OnCircuitBreakerDetected(context.Background()))
	}()
	waitFor(t, resetStarted)

	statusDone := make(chan struct{})
	go func() {
		defer close(statusDone)
		assert.Equal(t, 1, c.Status().CircuitBreaker.FailureCount)
	}()
	waitFor(t, statusDone)

	syncDone := make(chan struct{})
	go func() {
		defer close(syncDone)
		out, err := c.SyncDomain(context.Background(), pkgsync.DomainSprints, true, nil)
		assert.NoError(t, err)
		assert.True(t, out.OK)
	}()
	waitFor(t, syncDone)

	close(releaseReset)
	waitFor(t, resetDone)
	assert.Equal(t, 0, c.Status().CircuitBreaker.FailureCount)
}

func TestReset_DuringReconciliation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c, mocks, _ := newTestCoordinator(t, ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	mocks[pkgsync.DomainSprints].EXPECT().Reconcile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, pkgsync.Request) pkgsync.Outcome {
			close(started)
			<-release
			return outcome(pkgsync.DomainSprints, true, pkgsync.ReasonVerified)
		})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.SyncDomain(context.Background(), pkgsync.DomainSprints, true, nil)
	}()

	waitFor(t, started)
	c.Reset()
	close(release)
	waitFor(t, done)

	ds := c.Status().Domains[pkgsync.DomainSprints]
	assert.Equal(t, status.SyncPhasePending, ds.Phase, "outcome from before the reset is not kept")
	assert.Nil(t, ds.LastOutcome)
}

func TestStop_RejectsNewBackgroundWork(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	c, mocks, clk := newTestCoordinator(t, ctrl, WithPeriodicSync(true, time.Minute))
	for _, m := range mocks {
		m.EXPECT().Reconcile(gomock.Any(), gomock.Any()).Times(0)
	}

	require.NoError(t, c.Stop())

	cancel := c.SyncAfterTransaction(pkgsync.DomainTasks)
	defer cancel()
	stop := c.StartPeriodicSync(context.Background(), 0)
	defer stop()

	assert.False(t, c.Status().PeriodicSync)
	clk.Step(time.Minute)
	require.NoError(t, c.Stop())

	c.mu.Lock()
	assert.Empty(t, c.pending)
	c.mu.Unlock()
}
