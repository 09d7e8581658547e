package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agilechain/chainsync/internal/api"
	v1 "github.com/agilechain/chainsync/internal/api/v1"
	ledgermocks "github.com/agilechain/chainsync/internal/ledger/mocks"
	sessionmocks "github.com/agilechain/chainsync/internal/session/mocks"
	"github.com/agilechain/chainsync/internal/status"
	coordmocks "github.com/agilechain/chainsync/internal/sync/coordinator/mocks"
)

type testServer struct {
	coord   *coordmocks.MockCoordinator
	handler http.Handler
}

func newTestServer(t *testing.T, opts ...api.ServerOption) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)
	coord := coordmocks.NewMockCoordinator(ctrl)
	routes := v1.NewRoutes(
		coord,
		ledgermocks.NewMockGateway(ctrl),
		ledgermocks.NewMockWriter(ctrl),
		sessionmocks.NewMockStore(ctrl),
	)
	return &testServer{coord: coord, handler: api.NewServer(routes, opts...)}
}

func (s *testServer) do(method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	rr := newTestServer(t).do(http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response api.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
}

func TestVersionEndpoint(t *testing.T) {
	t.Parallel()

	rr := newTestServer(t).do(http.MethodGet, "/version")
	require.Equal(t, http.StatusOK, rr.Code)

	var response api.VersionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Version)
	assert.NotEmpty(t, response.GoVersion)
	assert.NotEmpty(t, response.Platform)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()
		rr := newTestServer(t).do(http.MethodGet, "/metrics")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("configured", func(t *testing.T) {
		t.Parallel()
		metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("chainsync_sync_runs_total 1\n"))
		})
		rr := newTestServer(t, api.WithMetricsHandler(metrics)).do(http.MethodGet, "/metrics")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "chainsync_sync_runs_total")
	})
}

func TestV1Mounted(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.coord.EXPECT().Status().Return(&status.Snapshot{Syncing: true})

	rr := s.do(http.MethodGet, "/v1/sync/status")
	require.Equal(t, http.StatusOK, rr.Code)

	var snap status.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.True(t, snap.Syncing)
}

func TestWithMiddlewares(t *testing.T) {
	t.Parallel()

	var seen string
	capture := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			seen = middleware.GetReqID(r.Context())
		})
	}

	s := newTestServer(t, api.WithMiddlewares(middleware.RequestID, capture, api.LoggingMiddleware))
	rr := s.do(http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, seen)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	rr := newTestServer(t).do(http.MethodGet, "/registry/v0.1/servers")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
