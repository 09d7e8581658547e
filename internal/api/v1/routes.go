// Package v1 provides the local API consumed by the UI: reconciliation control,
// circuit-breaker recovery, session logout and ledger writes wrapped with sync hooks.
package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agilechain/chainsync/internal/ledger"
	"github.com/agilechain/chainsync/internal/session"
	"github.com/agilechain/chainsync/internal/sync/coordinator"
)

// Routes handles HTTP requests for the v1 endpoints
type Routes struct {
	coordinator coordinator.Coordinator
	gateway     ledger.Gateway
	writer      ledger.Writer
	sessions    session.Store
}

// NewRoutes creates a new Routes instance. writer is expected to be decorated with the
// transaction-sync hooks so every successful write schedules its reconciliation.
func NewRoutes(
	coord coordinator.Coordinator,
	gateway ledger.Gateway,
	writer ledger.Writer,
	sessions session.Store,
) *Routes {
	return &Routes{
		coordinator: coord,
		gateway:     gateway,
		writer:      writer,
		sessions:    sessions,
	}
}

// Router creates and configures the HTTP router for the v1 endpoints
func Router(routes *Routes) http.Handler {
	r := chi.NewRouter()

	r.Route("/sync", func(r chi.Router) {
		r.Get("/status", routes.getStatus)
		r.Post("/", routes.syncAll)
		r.Post("/{domain}", routes.syncDomain)
	})

	r.Post("/ledger/circuit-breaker", routes.circuitBreaker)

	r.Route("/session", func(r chi.Router) {
		r.Get("/", routes.getSession)
		r.Post("/logout", routes.logout)
	})

	r.Route("/sprints", func(r chi.Router) {
		r.Post("/", routes.createSprint)
		r.Put("/{id}", routes.updateSprint)
		r.Delete("/{id}", routes.deleteSprint)
	})
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", routes.createTask)
		r.Put("/{id}", routes.updateTask)
		r.Delete("/{id}", routes.deleteTask)
		r.Post("/{id}/assign", routes.assignTask)
	})
	r.Post("/teams/register", routes.registerTeam)
	r.Route("/backlog", func(r chi.Router) {
		r.Post("/", routes.createBacklogItem)
		r.Put("/{id}", routes.updateBacklogItem)
		r.Delete("/{id}", routes.deleteBacklogItem)
	})

	return r
}
