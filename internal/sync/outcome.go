package sync

import (
	"time"

	"github.com/agilechain/chainsync/internal/ledger"
)

// Reason explains the outcome of a reconciliation
type Reason string

// Reconciliation reasons
const (
	// Success reasons
	ReasonVerified            Reason = "verified"
	ReasonThrottledStillValid Reason = "throttled-still-valid"

	// Unmet preconditions
	ReasonTeamNotOnLedger       Reason = "team-not-on-ledger"
	ReasonGatewayNotInitialized Reason = "gateway-not-initialized"
	ReasonContractUnavailable   Reason = "contract-unavailable"
	ReasonNoActiveAccount       Reason = "no-active-account"

	// Ledger failures
	ReasonCircuitBreakerOpen Reason = "circuit-breaker-open"
	ReasonLedgerError        Reason = "ledger-error"

	// ReasonReconcilerPanic is set by the coordinator when a reconciler panics
	ReasonReconcilerPanic Reason = "reconciler-panic"
)

// Outcome is the result of one domain reconciliation. OK is the only field callers
// decide on; the rest is carried for status reporting.
type Outcome struct {
	Domain    Domain        `json:"domain"`
	OK        bool          `json:"ok"`
	Reason    Reason        `json:"reason"`
	Message   string        `json:"message,omitempty"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// IsError reports whether the outcome was produced by a panic rather than a reconciler decision
func (o Outcome) IsError() bool {
	return o.Reason == ReasonReconcilerPanic
}

// IsCircuitBreakerSignature reports whether err matches the ledger circuit-breaker signature:
// a message containing "circuit breaker is open" or "Internal JSON-RPC error", or the
// JSON-RPC code -32603 anywhere in the error chain.
func IsCircuitBreakerSignature(err error) bool {
	return ledger.IsCircuitBreakerError(err)
}
