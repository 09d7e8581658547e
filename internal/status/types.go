package status

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgsync "github.com/agilechain/chainsync/internal/sync"
	"github.com/agilechain/chainsync/internal/sync/breaker"
)

// SyncPhase represents the state of a domain's last reconciliation
type SyncPhase string

const (
	// SyncPhasePending means the domain has not been reconciled yet
	SyncPhasePending SyncPhase = "Pending"

	// SyncPhaseSyncing means a reconciliation is currently in progress
	SyncPhaseSyncing SyncPhase = "Syncing"

	// SyncPhaseComplete means the last reconciliation succeeded
	SyncPhaseComplete SyncPhase = "Complete"

	// SyncPhaseFailed means the last reconciliation failed
	SyncPhaseFailed SyncPhase = "Failed"
)

// PhaseOf returns the phase corresponding to an outcome
func PhaseOf(o *pkgsync.Outcome) SyncPhase {
	switch {
	case o == nil:
		return SyncPhasePending
	case o.OK:
		return SyncPhaseComplete
	default:
		return SyncPhaseFailed
	}
}

// Report is the aggregated result of one reconciliation of every domain
type Report struct {
	// SyncID identifies the run in logs and traces
	SyncID string `json:"syncId"`

	// Forced is true when the throttle window was bypassed
	Forced bool `json:"forced"`

	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`

	// Outcomes holds one entry per domain in AllDomains order
	Outcomes []pkgsync.Outcome `json:"outcomes"`

	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Errored   int `json:"errored"`
}

// NewReport starts a report for a run beginning at startedAt
func NewReport(forced bool, startedAt time.Time) *Report {
	return &Report{
		SyncID:    uuid.NewString(),
		Forced:    forced,
		StartedAt: startedAt,
	}
}

// Add records one domain outcome
func (r *Report) Add(o pkgsync.Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch {
	case o.IsError():
		r.Errored++
	case o.OK:
		r.Succeeded++
	default:
		r.Failed++
	}
}

// OK reports whether every domain was verified or still valid
func (r *Report) OK() bool {
	return len(r.Outcomes) > 0 && r.Succeeded == len(r.Outcomes)
}

// Summary returns the consolidated outcome, e.g. "3/4 sucessos, 1 falhas, 0 erros"
func (r *Report) Summary() string {
	return fmt.Sprintf("%d/%d sucessos, %d falhas, %d erros", r.Succeeded, len(r.Outcomes), r.Failed, r.Errored)
}

// Outcome returns the outcome recorded for domain
func (r *Report) Outcome(domain pkgsync.Domain) (pkgsync.Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Domain == domain {
			return o, true
		}
	}
	return pkgsync.Outcome{}, false
}

// DomainStatus is the status of one domain
type DomainStatus struct {
	Phase SyncPhase `json:"phase"`

	// LastSync is the start time of the last successful reconciliation
	LastSync *time.Time `json:"lastSync,omitempty"`

	// LastOutcome is the outcome of the most recent reconciliation
	LastOutcome *pkgsync.Outcome `json:"lastOutcome,omitempty"`
}

// Snapshot is the coordinator state exposed to the UI
type Snapshot struct {
	// Syncing is true while a reconciliation of all domains is in flight
	Syncing bool `json:"syncing"`

	// PeriodicSync is true while the periodic timer is installed
	PeriodicSync bool `json:"periodicSync"`

	Domains        map[pkgsync.Domain]DomainStatus `json:"domains"`
	CircuitBreaker breaker.State                   `json:"circuitBreaker"`
	LastReport     *Report                         `json:"lastReport,omitempty"`
}
