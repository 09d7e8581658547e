package sync

import (
	"fmt"
	"strings"
)

// Domain identifies a unit of independent reconciliation and sync-hook tagging
type Domain string

// Reconcilable domains and the dispatch tag covering all of them
const (
	DomainTeam    Domain = "equipe"
	DomainSprints Domain = "sprints"
	DomainTasks   Domain = "tarefas"
	DomainBacklog Domain = "backlog"

	// DomainAll dispatches to every reconcilable domain
	DomainAll Domain = "all"
)

// AllDomains returns the reconcilable domains in their stable order
func AllDomains() []Domain {
	return []Domain{DomainTeam, DomainSprints, DomainTasks, DomainBacklog}
}

// IsReconcilable reports whether d names a single reconcilable domain
func (d Domain) IsReconcilable() bool {
	switch d {
	case DomainTeam, DomainSprints, DomainTasks, DomainBacklog:
		return true
	}
	return false
}

// String implements fmt.Stringer
func (d Domain) String() string {
	return string(d)
}

// ParseDomain parses a domain tag, accepting the English aliases "team" and "tasks"
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equipe", "team":
		return DomainTeam, nil
	case "sprints", "sprint":
		return DomainSprints, nil
	case "tarefas", "tasks", "task":
		return DomainTasks, nil
	case "backlog":
		return DomainBacklog, nil
	case "all", "":
		return DomainAll, nil
	}
	return "", fmt.Errorf("unknown sync domain %q", s)
}

// Team is the backend team the current user belongs to. It is owned by the caller
// and never mutated during reconciliation.
type Team struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	BlockchainID int64  `json:"blockchain_id"`
	Role         string `json:"role,omitempty"`
}

// OnLedger reports whether the team has been registered on the ledger
func (t *Team) OnLedger() bool {
	return t != nil && t.BlockchainID > 0
}
