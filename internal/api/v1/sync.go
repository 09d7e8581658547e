package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/agilechain/chainsync/internal/api/common"
	pkgsync "github.com/agilechain/chainsync/internal/sync"
	"github.com/agilechain/chainsync/internal/sync/coordinator"
)

// getStatus returns the coordinator snapshot
func (routes *Routes) getStatus(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, routes.coordinator.Status(), http.StatusOK)
}

// syncAll reconciles every domain. A non-forced request is rejected with 409 while
// another reconciliation is in flight.
func (routes *Routes) syncAll(w http.ResponseWriter, r *http.Request) {
	force, err := common.GetBoolQuery(r, "force", false)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	routes.runSyncAll(w, r, force)
}

func (routes *Routes) runSyncAll(w http.ResponseWriter, r *http.Request, force bool) {
	report, err := routes.coordinator.SyncAll(r.Context(), force, nil)
	if err != nil {
		if errors.Is(err, coordinator.ErrSyncInProgress) {
			common.WriteErrorResponse(w, err.Error(), http.StatusConflict)
			return
		}
		slog.Error("Sync of all domains failed", "error", err)
		common.WriteErrorResponse(w, "Failed to sync: "+err.Error(), http.StatusInternalServerError)
		return
	}
	common.WriteJSONResponse(w, report, http.StatusOK)
}

// syncDomain reconciles a single domain; "all" dispatches to syncAll
func (routes *Routes) syncDomain(w http.ResponseWriter, r *http.Request) {
	raw, err := common.GetAndValidateURLParam(r, "domain")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	domain, err := pkgsync.ParseDomain(raw)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	force, err := common.GetBoolQuery(r, "force", false)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if domain == pkgsync.DomainAll {
		routes.runSyncAll(w, r, force)
		return
	}

	outcome, err := routes.coordinator.SyncDomain(r.Context(), domain, force, nil)
	if err != nil {
		if errors.Is(err, coordinator.ErrUnknownDomain) {
			common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		common.WriteErrorResponse(w, "Failed to sync: "+err.Error(), http.StatusInternalServerError)
		return
	}
	common.WriteJSONResponse(w, outcome, http.StatusOK)
}
