package v1

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/agilechain/chainsync/internal/api/common"
	"github.com/agilechain/chainsync/internal/session"
)

// SessionResponse describes the current session without its token
type SessionResponse struct {
	User      session.User `json:"user"`
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	Expired   bool         `json:"expired"`
}

func (routes *Routes) getSession(w http.ResponseWriter, r *http.Request) {
	s, err := routes.sessions.Load(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			common.WriteErrorResponse(w, "No active session", http.StatusNotFound)
			return
		}
		common.WriteErrorResponse(w, "Failed to load session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := SessionResponse{
		User:      s.User,
		CreatedAt: s.CreatedAt,
		Expired:   s.Expired(time.Now()),
	}
	if exp, ok := s.ExpiresAt(); ok {
		resp.ExpiresAt = &exp
	}
	common.WriteJSONResponse(w, resp, http.StatusOK)
}

// logout clears the stored session and all reconciliation state
func (routes *Routes) logout(w http.ResponseWriter, r *http.Request) {
	if err := routes.sessions.Clear(r.Context()); err != nil {
		slog.Error("Failed to clear session", "error", err)
		common.WriteErrorResponse(w, "Failed to clear session: "+err.Error(), http.StatusInternalServerError)
		return
	}
	routes.coordinator.Reset()
	slog.Info("Session cleared")
	w.WriteHeader(http.StatusNoContent)
}
