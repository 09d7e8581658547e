package v1

import (
	"net/http"

	"github.com/agilechain/chainsync/internal/api/common"
	"github.com/agilechain/chainsync/internal/sync/breaker"
)

// CircuitBreakerResponse reports the result of one circuit-breaker occurrence
type CircuitBreakerResponse struct {
	Reset bool          `json:"reset"`
	State breaker.State `json:"state"`
}

// circuitBreaker records an observed circuit-breaker signature and attempts a network
// reset once the threshold and cooldown allow it
func (routes *Routes) circuitBreaker(w http.ResponseWriter, r *http.Request) {
	reset := routes.coordinator.OnCircuitBreakerDetected(r.Context())
	common.WriteJSONResponse(w, CircuitBreakerResponse{
		Reset: reset,
		State: routes.coordinator.Status().CircuitBreaker,
	}, http.StatusOK)
}
