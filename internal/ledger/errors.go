package ledger

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/exp/jsonrpc2"
)

// Error codes reported by the ledger sidecar and wallet providers
const (
	// CodeUserRejected is the wallet provider code for a request rejected by the user (EIP-1193)
	CodeUserRejected int64 = 4001

	// CodeInternal is the JSON-RPC internal error code, also used by nodes with an open circuit breaker
	CodeInternal int64 = -32603
)

// User-facing messages returned by HumanizeError
const (
	MsgUserRejected      = "Transação rejeitada pelo usuário"
	MsgInsufficientFunds = "Saldo insuficiente para a transação"
	MsgReverted          = "Transação revertida pelo contrato"
	MsgNonce             = "Conflito de nonce, aguarde a confirmação da transação anterior"
	MsgTimeout           = "Tempo esgotado ao contatar a rede blockchain"
	MsgNetwork           = "Erro de conexão com a rede blockchain"
	MsgCircuitBreaker    = "Rede blockchain sobrecarregada, tente novamente em instantes"
)

var circuitBreakerMessages = []string{
	"circuit breaker is open",
	"Internal JSON-RPC error",
}

type rpcCoder interface {
	RPCCode() int64
}

// IsCircuitBreakerError reports whether err carries the signature of a node rejecting calls
// with an open circuit breaker: a known message fragment or the JSON-RPC internal error code.
func IsCircuitBreakerError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, fragment := range circuitBreakerMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}

	var coder rpcCoder
	if errors.As(err, &coder) && coder.RPCCode() == CodeInternal {
		return true
	}
	return errors.Is(err, jsonrpc2.ErrInternal)
}

// IsRetryable reports whether a sidecar error may succeed when retried
func IsRetryable(err *RPCError) bool {
	switch err.Code {
	case CodeUserRejected, errCodeMethodNotFound:
		return false
	}
	return true
}

// HumanizeError converts a ledger error into a message suitable for end users
func HumanizeError(err error) string {
	if err == nil {
		return ""
	}

	var rpcErr *RPCError
	if errors.As(err, &rpcErr) && rpcErr.Code == CodeUserRejected {
		return MsgUserRejected
	}
	if IsCircuitBreakerError(err) {
		return MsgCircuitBreaker
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "user rejected"), strings.Contains(lower, "user denied"):
		return MsgUserRejected
	case strings.Contains(lower, "insufficient funds"):
		return MsgInsufficientFunds
	case strings.Contains(lower, "revert"):
		if reason := revertReason(rpcErr, msg); reason != "" {
			return MsgReverted + ": " + reason
		}
		return MsgReverted
	case strings.Contains(lower, "nonce"):
		return MsgNonce
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(lower, "timeout") {
		return MsgTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) || strings.Contains(lower, "connection refused") {
		return MsgNetwork
	}
	return msg
}

// revertReason extracts the revert reason from the error data, or from the message after "reverted:"
func revertReason(rpcErr *RPCError, msg string) string {
	if rpcErr != nil && len(rpcErr.Data) > 0 {
		if reason := gjson.GetBytes(rpcErr.Data, "reason"); reason.Exists() {
			return reason.String()
		}
	}
	if _, after, found := strings.Cut(msg, "reverted:"); found {
		return strings.TrimSpace(after)
	}
	return ""
}
