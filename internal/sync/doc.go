// Package sync holds the domain reconcilers that verify local state against the ledger.
//
// # Domains
//
// Four domains are reconciled: the team (equipe), sprints, tasks (tarefas) and the
// backlog. ParseDomain accepts both the Portuguese and the English names, plus "all".
//
// # Reconcilers
//
// Each Reconciler reports its result as an Outcome and never returns an error. A domain
// verified within the throttle window is reported as ReasonThrottledStillValid without
// contacting the ledger unless the request is forced. The contract-backed domains check,
// in order, that the gateway is initialized, that the contract is available and that an
// account is active before calling the ledger. Ledger failures matching the
// circuit-breaker signature are reported as ReasonCircuitBreakerOpen.
//
// The team reconciler is local: a team is consistent when it carries a positive ledger
// identifier.
//
// Scheduling, fan-out and circuit-breaker recovery live in the coordinator subpackage.
package sync
