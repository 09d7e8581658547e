package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/jsonrpc2"
)

func TestIsCircuitBreakerError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "breaker message", err: errors.New("execution failed: circuit breaker is open"), want: true},
		{name: "internal json-rpc message", err: errors.New("Internal JSON-RPC error."), want: true},
		{name: "rpc code", err: &RPCError{Code: CodeInternal, Message: "boom"}, want: true},
		{name: "wrapped rpc code", err: fmt.Errorf("verify: %w", &RPCError{Code: CodeInternal}), want: true},
		{name: "jsonrpc2 sentinel", err: fmt.Errorf("call: %w", jsonrpc2.ErrInternal), want: true},
		{name: "other code", err: &RPCError{Code: -32000, Message: "header not found"}, want: false},
		{name: "plain error", err: errors.New("nonce too low"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsCircuitBreakerError(tt.err))
		})
	}
}

func TestHumanizeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "user rejected code", err: &RPCError{Code: CodeUserRejected, Message: "rejected"}, want: MsgUserRejected},
		{name: "user denied message", err: errors.New("MetaMask Tx Signature: User denied transaction signature."), want: MsgUserRejected},
		{name: "insufficient funds", err: errors.New("insufficient funds for gas * price + value"), want: MsgInsufficientFunds},
		{
			name: "revert with data reason",
			err:  &RPCError{Code: 3, Message: "execution reverted", Data: json.RawMessage(`{"reason":"Sprint already closed"}`)},
			want: MsgReverted + ": Sprint already closed",
		},
		{name: "revert in message", err: errors.New("execution reverted: Not team member"), want: MsgReverted + ": Not team member"},
		{name: "revert without reason", err: errors.New("transaction reverted"), want: MsgReverted},
		{name: "nonce", err: errors.New("nonce too low"), want: MsgNonce},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: MsgTimeout},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:8545: connect: connection refused"), want: MsgNetwork},
		{name: "circuit breaker", err: errors.New("circuit breaker is open"), want: MsgCircuitBreaker},
		{name: "unknown", err: errors.New("something odd"), want: "something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, HumanizeError(tt.err))
		})
	}
}

func TestNotImplemented(t *testing.T) {
	t.Parallel()

	res := NotImplemented("team_register")
	assert.False(t, res.Success)
	assert.Equal(t, "not implemented: team_register", res.Error)
}
