package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/agilechain/chainsync/internal/ledger"
	ledgermocks "github.com/agilechain/chainsync/internal/ledger/mocks"
	"github.com/agilechain/chainsync/internal/sync/throttle"
)

var (
	sprintContract  = &ledger.Contract{Name: "SprintManager", Address: "0x01"}
	taskContract    = &ledger.Contract{Name: "TaskManager", Address: "0x02"}
	backlogContract = &ledger.Contract{Name: "BacklogManager", Address: "0x03"}
	allContracts    = &ledger.Contracts{Sprint: sprintContract, Task: taskContract, Backlog: backlogContract}
)

func newTestThrottle() (*throttle.State[Domain], *clocktesting.FakePassiveClock) {
	clk := clocktesting.NewFakePassiveClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	return throttle.New[Domain](0, clk), clk
}

func TestTeamReconciler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		team       *Team
		wantOK     bool
		wantReason Reason
	}{
		{name: "nil team", team: nil, wantOK: false, wantReason: ReasonTeamNotOnLedger},
		{name: "team without ledger id", team: &Team{ID: 1, Name: "Alpha", BlockchainID: 0}, wantOK: false, wantReason: ReasonTeamNotOnLedger},
		{name: "negative ledger id", team: &Team{ID: 1, BlockchainID: -3}, wantOK: false, wantReason: ReasonTeamNotOnLedger},
		{name: "team on ledger", team: &Team{ID: 1, Name: "Alpha", BlockchainID: 42}, wantOK: true, wantReason: ReasonVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			th, _ := newTestThrottle()
			r := NewTeamReconciler(th)

			out := r.Reconcile(context.Background(), Request{Team: tt.team})
			assert.Equal(t, DomainTeam, out.Domain)
			assert.Equal(t, tt.wantOK, out.OK)
			assert.Equal(t, tt.wantReason, out.Reason)

			_, recorded := th.Last(DomainTeam)
			assert.Equal(t, tt.wantOK, recorded, "only successes record a throttle entry")
		})
	}
}

func TestTeamReconciler_DoesNotMutateTeam(t *testing.T) {
	t.Parallel()

	th, _ := newTestThrottle()
	team := &Team{ID: 3, Name: "Gamma", BlockchainID: 9, Role: "owner"}
	snapshot := *team

	NewTeamReconciler(th).Reconcile(context.Background(), Request{Team: team, Force: true})
	assert.Equal(t, snapshot, *team)
}

func TestContractReconciler_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gw := ledgermocks.NewMockGateway(ctrl)
	th, clk := newTestThrottle()
	startedAt := clk.Now()

	gw.EXPECT().Initialize(gomock.Any()).Return(true, nil)
	gw.EXPECT().GetContracts(gomock.Any()).Return(allContracts, nil)
	gw.EXPECT().GetCurrentAccount(gomock.Any()).Return("0xabc", nil)
	gw.EXPECT().VerifyContract(gomock.Any(), taskContract, "0xabc").DoAndReturn(
		func(context.Context, *ledger.Contract, string) error {
			clk.SetTime(startedAt.Add(3 * time.Second))
			return nil
		})

	out := NewContractReconciler(DomainTasks, gw, th).Reconcile(context.Background(), Request{})
	assert.True(t, out.OK)
	assert.Equal(t, ReasonVerified, out.Reason)
	assert.Equal(t, 3*time.Second, out.Duration)

	last, ok := th.Last(DomainTasks)
	require.True(t, ok)
	assert.Equal(t, startedAt, last, "throttle entry is the reconciliation start time")

	_, other := th.Last(DomainSprints)
	assert.False(t, other, "no cross-domain mutation")
}

func TestContractReconciler_ThrottledSkipsLedger(t *testing.T) {
	t.Parallel()

	for _, domain := range []Domain{DomainSprints, DomainTasks, DomainBacklog} {
		t.Run(string(domain), func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			// no expectations: any gateway call fails the test
			gw := ledgermocks.NewMockGateway(ctrl)
			th, clk := newTestThrottle()
			th.Record(domain, clk.Now())
			clk.SetTime(clk.Now().Add(throttle.DefaultWindow - time.Second))

			out := NewContractReconciler(domain, gw, th).Reconcile(context.Background(), Request{})
			assert.True(t, out.OK)
			assert.Equal(t, ReasonThrottledStillValid, out.Reason)
		})
	}
}

func TestTeamReconciler_ThrottledSkipsValidation(t *testing.T) {
	t.Parallel()

	th, clk := newTestThrottle()
	th.Record(DomainTeam, clk.Now())

	out := NewTeamReconciler(th).Reconcile(context.Background(), Request{Team: nil})
	assert.True(t, out.OK)
	assert.Equal(t, ReasonThrottledStillValid, out.Reason)

	out = NewTeamReconciler(th).Reconcile(context.Background(), Request{Team: nil, Force: true})
	assert.False(t, out.OK)
}

func TestContractReconciler_Preconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(gw *ledgermocks.MockGateway)
		wantReason Reason
	}{
		{
			name: "gateway not initialized",
			setup: func(gw *ledgermocks.MockGateway) {
				gw.EXPECT().Initialize(gomock.Any()).Return(false, nil)
			},
			wantReason: ReasonGatewayNotInitialized,
		},
		{
			name: "contract unavailable",
			setup: func(gw *ledgermocks.MockGateway) {
				gw.EXPECT().Initialize(gomock.Any()).Return(true, nil)
				gw.EXPECT().GetContracts(gomock.Any()).Return(&ledger.Contracts{Task: taskContract}, nil)
			},
			wantReason: ReasonContractUnavailable,
		},
		{
			name: "nil contracts",
			setup: func(gw *ledgermocks.MockGateway) {
				gw.EXPECT().Initialize(gomock.Any()).Return(true, nil)
				gw.EXPECT().GetContracts(gomock.Any()).Return(nil, nil)
			},
			wantReason: ReasonContractUnavailable,
		},
		{
			name: "no active account",
			setup: func(gw *ledgermocks.MockGateway) {
				gw.EXPECT().Initialize(gomock.Any()).Return(true, nil)
				gw.EXPECT().GetContracts(gomock.Any()).Return(allContracts, nil)
				gw.EXPECT().GetCurrentAccount(gomock.Any()).Return("", nil)
			},
			wantReason: ReasonNoActiveAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			gw := ledgermocks.NewMockGateway(ctrl)
			tt.setup(gw)
			th, _ := newTestThrottle()

			out := NewContractReconciler(DomainSprints, gw, th).Reconcile(context.Background(), Request{Force: true})
			assert.False(t, out.OK)
			assert.Equal(t, tt.wantReason, out.Reason)
			_, recorded := th.Last(DomainSprints)
			assert.False(t, recorded)
		})
	}
}

func TestContractReconciler_LedgerErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantReason  Reason
		wantHandled bool
	}{
		{name: "circuit breaker message", err: errors.New("circuit breaker is open"), wantReason: ReasonCircuitBreakerOpen},
		{name: "internal json-rpc message", err: errors.New("Internal JSON-RPC error."), wantReason: ReasonCircuitBreakerOpen},
		{name: "internal code", err: &ledger.RPCError{Code: -32603, Message: "execution failed"}, wantReason: ReasonCircuitBreakerOpen},
		{name: "other error", err: errors.New("execution reverted: not a member"), wantReason: ReasonLedgerError, wantHandled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			gw := ledgermocks.NewMockGateway(ctrl)
			gw.EXPECT().Initialize(gomock.Any()).Return(true, nil)
			gw.EXPECT().GetContracts(gomock.Any()).Return(allContracts, nil)
			gw.EXPECT().GetCurrentAccount(gomock.Any()).Return("0xabc", nil)
			gw.EXPECT().VerifyContract(gomock.Any(), backlogContract, "0xabc").Return(tt.err)
			if tt.wantHandled {
				gw.EXPECT().HandleTransactionError(tt.err).Return("Transação revertida pelo contrato: not a member")
			}
			th, _ := newTestThrottle()

			out := NewContractReconciler(DomainBacklog, gw, th).Reconcile(context.Background(), Request{Force: true})
			assert.False(t, out.OK)
			assert.Equal(t, tt.wantReason, out.Reason)
			if tt.wantHandled {
				assert.Contains(t, out.Message, "Transação revertida pelo contrato")
			}
		})
	}
}

func TestContractReconciler_InitializeError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gw := ledgermocks.NewMockGateway(ctrl)
	initErr := errors.New("dial tcp: connection refused")
	gw.EXPECT().Initialize(gomock.Any()).Return(false, initErr)
	gw.EXPECT().HandleTransactionError(initErr).Return("Erro de conexão com a rede blockchain")
	th, _ := newTestThrottle()

	out := NewContractReconciler(DomainSprints, gw, th).Reconcile(context.Background(), Request{})
	assert.False(t, out.OK)
	assert.Equal(t, ReasonLedgerError, out.Reason)
}

func TestNewReconcilers(t *testing.T) {
	t.Parallel()

	th, _ := newTestThrottle()
	rs := NewReconcilers(nil, th)
	require.Len(t, rs, 4)
	for i, d := range AllDomains() {
		assert.Equal(t, d, rs[i].Domain())
	}
}

func TestContractReconciler_ResetDuringVerification(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gw := ledgermocks.NewMockGateway(ctrl)
	th, _ := newTestThrottle()

	gw.EXPECT().Initialize(gomock.Any()).Return(true, nil)
	gw.EXPECT().GetContracts(gomock.Any()).Return(allContracts, nil)
	gw.EXPECT().GetCurrentAccount(gomock.Any()).Return("0xabc", nil)
	gw.EXPECT().VerifyContract(gomock.Any(), sprintContract, "0xabc").DoAndReturn(
		func(context.Context, *ledger.Contract, string) error {
			th.Reset()
			return nil
		})

	out := NewContractReconciler(DomainSprints, gw, th).Reconcile(context.Background(), Request{})
	assert.True(t, out.OK)

	_, recorded := th.Last(DomainSprints)
	assert.False(t, recorded, "a logout during verification must not leave a throttle entry")
	assert.True(t, th.Allow(DomainSprints, false))
}
