package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agilechain/chainsync/internal/api/common"
	"github.com/agilechain/chainsync/internal/versions"
)

// HealthRouter creates a router for health, version and metrics endpoints.
// /metrics is only served when metrics is not nil.
func HealthRouter(metrics http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()
	common.WriteJSONResponse(w, VersionResponse{
		Version:   info.Version,
		Commit:    info.Commit,
		BuildDate: info.BuildDate,
		GoVersion: info.GoVersion,
		Platform:  info.Platform,
	}, http.StatusOK)
}
