// Package ledger defines the contract of the ledger-access collaborator and provides a
// JSON-RPC client for the ledger sidecar that owns wallets, signing and consensus.
package ledger

import (
	"context"
	"fmt"
)

// Contract is a handle to a deployed ledger contract
type Contract struct {
	// Name is the logical contract name (e.g. "SprintManager")
	Name string `json:"name"`

	// Address is the on-chain address of the contract
	Address string `json:"address"`
}

// Contracts holds the contract handles exposed by the gateway.
// A nil handle means the contract is not available on the connected network.
type Contracts struct {
	Sprint  *Contract `json:"sprintContract,omitempty"`
	Task    *Contract `json:"taskContract,omitempty"`
	Backlog *Contract `json:"backlogContract,omitempty"`
	Team    *Contract `json:"teamContract,omitempty"`
}

// Gateway is the read side of the ledger-access collaborator.
// Implementations are safe to call repeatedly and bound their own calls with timeouts.
//
//go:generate mockgen -destination=mocks/mock_ledger.go -package=mocks github.com/agilechain/chainsync/internal/ledger Gateway,Writer
type Gateway interface {
	// Initialize connects to the ledger network, returning false when the network is not usable
	Initialize(ctx context.Context) (bool, error)

	// GetContracts returns the contract handles for the connected network
	GetContracts(ctx context.Context) (*Contracts, error)

	// GetCurrentAccount returns the active account address, or "" when there is none
	GetCurrentAccount(ctx context.Context) (string, error)

	// VerifyContract performs a read-only consistency check of a contract for the given account
	VerifyContract(ctx context.Context, contract *Contract, account string) error

	// HandleTransactionError converts a ledger error into a human-readable message
	HandleTransactionError(err error) string

	// ResetNetwork resets the connection to the ledger network
	ResetNetwork(ctx context.Context) (bool, error)
}

// WriteResult is the outcome of a ledger write operation
type WriteResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash,omitempty"`
	ID      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NotImplemented returns the standard result for a write that has no registered mutation
func NotImplemented(op string) *WriteResult {
	return &WriteResult{
		Success: false,
		Error:   fmt.Sprintf("not implemented: %s", op),
	}
}

// SprintInput carries the fields of a sprint write
type SprintInput struct {
	TeamID    int64  `json:"teamId"`
	Name      string `json:"name"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// TaskInput carries the fields of a task write
type TaskInput struct {
	SprintID    int64  `json:"sprintId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Points      int    `json:"points,omitempty"`
}

// BacklogItemInput carries the fields of a backlog item write
type BacklogItemInput struct {
	TeamID      int64  `json:"teamId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority,omitempty"`
}

// TeamInput carries the fields of a team registration
type TeamInput struct {
	BackendID int64  `json:"backendId"`
	Name      string `json:"name"`
}

// Writer is the write side of the ledger-access collaborator
type Writer interface {
	CreateSprint(ctx context.Context, in SprintInput) (*WriteResult, error)
	UpdateSprint(ctx context.Context, id int64, in SprintInput) (*WriteResult, error)
	DeleteSprint(ctx context.Context, id int64) (*WriteResult, error)

	CreateTask(ctx context.Context, in TaskInput) (*WriteResult, error)
	UpdateTask(ctx context.Context, id int64, in TaskInput) (*WriteResult, error)
	DeleteTask(ctx context.Context, id int64) (*WriteResult, error)
	AssignTask(ctx context.Context, id int64, assignee string) (*WriteResult, error)

	RegisterTeam(ctx context.Context, in TeamInput) (*WriteResult, error)

	CreateBacklogItem(ctx context.Context, in BacklogItemInput) (*WriteResult, error)
	UpdateBacklogItem(ctx context.Context, id int64, in BacklogItemInput) (*WriteResult, error)
	DeleteBacklogItem(ctx context.Context, id int64) (*WriteResult, error)
}
