package v1

import (
	"net/http"
	"strings"

	"github.com/agilechain/chainsync/internal/api/common"
	"github.com/agilechain/chainsync/internal/ledger"
)

// AssignRequest is the body of a task assignment
type AssignRequest struct {
	Assignee string `json:"assignee"`
}

func (routes *Routes) createSprint(w http.ResponseWriter, r *http.Request) {
	var in ledger.SprintInput
	if !decode(w, r, &in) {
		return
	}
	result, err := routes.writer.CreateSprint(r.Context(), in)
	routes.writeResult(w, result, err, http.StatusCreated)
}

func (routes *Routes) updateSprint(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in ledger.SprintInput
	if !decode(w, r, &in) {
		return
	}
	result, err := routes.writer.UpdateSprint(r.Context(), id, in)
	routes.writeResult(w, result, err, http.StatusOK)
}

func (routes *Routes) deleteSprint(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := routes.writer.DeleteSprint(r.Context(), id)
	routes.writeResult(w, result, err, http.StatusOK)
}

func (routes *Routes) createTask(w http.ResponseWriter, r *http.Request) {
	var in ledger.TaskInput
	if !decode(w, r, &in) {
		return
	}
	result, err := routes.writer.CreateTask(r.Context(), in)
	routes.writeResult(w, result, err, http.StatusCreated)
}

func (routes *Routes) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in ledger.TaskInput
	if !decode(w, r, &in) {
		return
	}
	result, err := routes.writer.UpdateTask(r.Context(), id, in)
	routes.writeResult(w, result, err, http.StatusOK)
}

func (routes *Routes) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := routes.writer.DeleteTask(r.Context(), id)
	routes.writeResult(w, result, err, http.StatusOK)
}

func (routes *Routes) assignTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req AssignRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Assignee) == "" {
		common.WriteErrorResponse(w, "assignee is required", http.StatusBadRequest)
		return
	}
	result, err := routes.writer.AssignTask(r.Context(), id, req.Assignee)
	routes.writeResult(w, result, err, http.StatusOK)
}

func (routes *Routes) registerTeam(w http.ResponseWriter, r *http.Request) {
	var in ledger.TeamInput
	if !decode(w, r, &in) {
		return
	}
	result, err := routes.writer.RegisterTeam(r.Context(), in)
	routes.writeResult(w, result, err, http.StatusCreated)
}

func (routes *Routes) createBacklogItem(w http.ResponseWriter, r *http.Request) {
	var in ledger.BacklogItemInput
	if !decode(w, r, &in) {
		return
	}
	result, err := routes.writer.CreateBacklogItem(r.Context(), in)
	routes.writeResult(w, result, err, http.StatusCreated)
}

func (routes *Routes) updateBacklogItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in ledger.BacklogItemInput
	if !decode(w, r, &in) {
		return
	}
	result, err := routes.writer.UpdateBacklogItem(r.Context(), id, in)
	routes.writeResult(w, result, err, http.StatusOK)
}

func (routes *Routes) deleteBacklogItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := routes.writer.DeleteBacklogItem(r.Context(), id)
	routes.writeResult(w, result, err, http.StatusOK)
}

// writeResult maps a ledger write to a response:
// - error: 502 with the gateway's human-readable message
// - no registered mutation: 501
// - unsuccessful: 422 with the result
// - success: okStatus with the result
func (routes *Routes) writeResult(w http.ResponseWriter, result *ledger.WriteResult, err error, okStatus int) {
	switch {
	case err != nil:
		common.WriteErrorResponse(w, routes.gateway.HandleTransactionError(err), http.StatusBadGateway)
	case result == nil:
		common.WriteErrorResponse(w, "ledger returned no result", http.StatusBadGateway)
	case !result.Success && strings.HasPrefix(result.Error, "not implemented:"):
		common.WriteJSONResponse(w, result, http.StatusNotImplemented)
	case !result.Success:
		common.WriteJSONResponse(w, result, http.StatusUnprocessableEntity)
	default:
		common.WriteJSONResponse(w, result, okStatus)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := common.DecodeJSONBody(w, r, v); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := common.GetIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
