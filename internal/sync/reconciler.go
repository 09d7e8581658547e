package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agilechain/chainsync/internal/ledger"
	"github.com/agilechain/chainsync/internal/sync/throttle"
)

// Request carries the inputs of one reconciliation
type Request struct {
	// Force bypasses the throttle window
	Force bool

	// Team is the current backend team; only the team reconciler reads it
	Team *Team
}

// Reconciler verifies that one domain's local state is consistent with the ledger.
// Reconcile never returns errors and never panics on its own logic: every failure is
// reported through the Outcome.
//
//go:generate mockgen -destination=mocks/mock_reconciler.go -package=mocks github.com/agilechain/chainsync/internal/sync Reconciler
type Reconciler interface {
	// Domain returns the domain this reconciler is responsible for
	Domain() Domain

	// Reconcile runs one reconciliation
	Reconcile(ctx context.Context, req Request) Outcome
}

// NewReconcilers builds the four domain reconcilers sharing the given throttle state
func NewReconcilers(gateway ledger.Gateway, th *throttle.State[Domain]) []Reconciler {
	return []Reconciler{
		NewTeamReconciler(th),
		NewContractReconciler(DomainSprints, gateway, th),
		NewContractReconciler(DomainTasks, gateway, th),
		NewContractReconciler(DomainBacklog, gateway, th),
	}
}

// teamReconciler verifies the team's ledger registration. The check is local: a team is
// consistent when it carries a positive ledger identifier.
type teamReconciler struct {
	throttle *throttle.State[Domain]
}

// NewTeamReconciler creates the reconciler of the team domain
func NewTeamReconciler(th *throttle.State[Domain]) Reconciler {
	return &teamReconciler{throttle: th}
}

func (*teamReconciler) Domain() Domain {
	return DomainTeam
}

func (r *teamReconciler) Reconcile(_ context.Context, req Request) Outcome {
	out := newOutcome(DomainTeam, r.throttle)
	gen := r.throttle.Generation()
	if !r.throttle.Allow(DomainTeam, req.Force) {
		return out.finish(r.throttle, true, ReasonThrottledStillValid, "")
	}

	if !req.Team.OnLedger() {
		slog.Warn("Team is not registered on the ledger, skipping reconciliation", "domain", DomainTeam)
		return out.finish(r.throttle, false, ReasonTeamNotOnLedger, "team has no ledger identifier")
	}

	r.throttle.RecordIfCurrent(DomainTeam, out.StartedAt, gen)
	slog.Debug("Team verified",
		"domain", DomainTeam,
		"team_id", req.Team.ID,
		"blockchain_id", req.Team.BlockchainID)
	return out.finish(r.throttle, true, ReasonVerified, "")
}

// contractReconciler verifies one contract-backed domain against the ledger
type contractReconciler struct {
	domain   Domain
	gateway  ledger.Gateway
	throttle *throttle.State[Domain]
}

// NewContractReconciler creates the reconciler of a contract-backed domain (sprints, tasks or backlog)
func NewContractReconciler(domain Domain, gateway ledger.Gateway, th *throttle.State[Domain]) Reconciler {
	return &contractReconciler{domain: domain, gateway: gateway, throttle: th}
}

func (r *contractReconciler) Domain() Domain {
	return r.domain
}

func (r *contractReconciler) Reconcile(ctx context.Context, req Request) Outcome {
	out := newOutcome(r.domain, r.throttle)
	gen := r.throttle.Generation()
	if !r.throttle.Allow(r.domain, req.Force) {
		return out.finish(r.throttle, true, ReasonThrottledStillValid, "")
	}

	initialized, err := r.gateway.Initialize(ctx)
	if err != nil {
		return r.ledgerFailure(out, "initialize", err)
	}
	if !initialized {
		slog.Warn("Ledger gateway not initialized", "domain", r.domain)
		return out.finish(r.throttle, false, ReasonGatewayNotInitialized, "ledger gateway not initialized")
	}

	contracts, err := r.gateway.GetContracts(ctx)
	if err != nil {
		return r.ledgerFailure(out, "get contracts", err)
	}
	contract := contractFor(r.domain, contracts)
	if contract == nil {
		slog.Warn("Ledger contract unavailable", "domain", r.domain)
		return out.finish(r.throttle, false, ReasonContractUnavailable, "contract unavailable")
	}

	account, err := r.gateway.GetCurrentAccount(ctx)
	if err != nil {
		return r.ledgerFailure(out, "get current account", err)
	}
	if account == "" {
		slog.Warn("No active ledger account", "domain", r.domain)
		return out.finish(r.throttle, false, ReasonNoActiveAccount, "no active account")
	}

	if err := r.gateway.VerifyContract(ctx, contract, account); err != nil {
		return r.ledgerFailure(out, "verify contract", err)
	}

	if !r.throttle.RecordIfCurrent(r.domain, out.StartedAt, gen) {
		slog.Debug("Sync state reset during reconciliation, not recording", "domain", r.domain)
	}
	slog.Debug("Domain verified", "domain", r.domain, "contract", contract.Name)
	return out.finish(r.throttle, true, ReasonVerified, "")
}

// ledgerFailure classifies an error raised by a ledger call
func (r *contractReconciler) ledgerFailure(out Outcome, step string, err error) Outcome {
	if IsCircuitBreakerSignature(err) {
		slog.Warn("Ledger circuit breaker open, skipping reconciliation",
			"domain", r.domain,
			"step", step,
			"error", err)
		return out.finish(r.throttle, false, ReasonCircuitBreakerOpen, err.Error())
	}

	msg := r.gateway.HandleTransactionError(err)
	slog.Error("Ledger reconciliation failed",
		"domain", r.domain,
		"step", step,
		"message", msg,
		"error", err)
	return out.finish(r.throttle, false, ReasonLedgerError, fmt.Sprintf("%s: %s", step, msg))
}

func contractFor(domain Domain, contracts *ledger.Contracts) *ledger.Contract {
	if contracts == nil {
		return nil
	}
	switch domain {
	case DomainSprints:
		return contracts.Sprint
	case DomainTasks:
		return contracts.Task
	case DomainBacklog:
		return contracts.Backlog
	}
	return nil
}

func newOutcome(domain Domain, th *throttle.State[Domain]) Outcome {
	return Outcome{Domain: domain, StartedAt: th.Now()}
}

func (o Outcome) finish(th *throttle.State[Domain], ok bool, reason Reason, msg string) Outcome {
	o.OK = ok
	o.Reason = reason
	o.Message = msg
	o.Duration = th.Now().Sub(o.StartedAt)
	return o
}
