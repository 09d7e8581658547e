package httpclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilechain/chainsync/internal/httpclient"
)

// newTestServer creates a new test server with keep-alives disabled.
// This prevents flaky tests when running in parallel, as closing a server
// with keep-alives enabled can affect other tests sharing the HTTP transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestDefaultClient_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []httpclient.RequestOption
		wantAuth   string
		wantHeader string
	}{
		{
			name: "no options",
		},
		{
			name:     "bearer token",
			opts:     []httpclient.RequestOption{httpclient.WithBearerToken("tok")},
			wantAuth: "Bearer tok",
		},
		{
			name: "empty bearer token is ignored",
			opts: []httpclient.RequestOption{httpclient.WithBearerToken("")},
		},
		{
			name:       "custom header",
			opts:       []httpclient.RequestOption{httpclient.WithHeader("X-Trace", "abc")},
			wantHeader: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, httpclient.UserAgent, r.Header.Get("User-Agent"))
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				assert.Equal(t, tt.wantAuth, r.Header.Get("Authorization"))
				assert.Equal(t, tt.wantHeader, r.Header.Get("X-Trace"))
				_, _ = w.Write([]byte(`{"success":true}`))
			}))
			defer server.Close()

			body, err := httpclient.NewDefaultClient(time.Second).Get(context.Background(), server.URL, tt.opts...)
			require.NoError(t, err)
			assert.JSONEq(t, `{"success":true}`, string(body))
		})
	}
}

func TestDefaultClient_PostJSON(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ana@example.com", in["email"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"t"}`))
	}))
	defer server.Close()

	body, err := httpclient.NewDefaultClient(0).PostJSON(context.Background(), server.URL,
		map[string]string{"email": "ana@example.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"t"}`, string(body))
}

func TestDefaultClient_HTTPError(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Token inválido"}`))
	}))
	defer server.Close()

	_, err := httpclient.NewDefaultClient(0).Get(context.Background(), server.URL+"/api/groups/user-team")
	require.Error(t, err)

	var httpErr *httpclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.True(t, strings.HasSuffix(httpErr.URL, "/api/groups/user-team"))
	assert.Contains(t, string(httpErr.Body), "Token inválido")
}

func TestDefaultClient_ResponseTooLarge(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chunk := []byte(strings.Repeat("a", 1024*1024))
		for range 11 {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	_, err := httpclient.NewDefaultClient(5 * time.Second).Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum allowed size")
}

func TestDefaultClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := httpclient.NewDefaultClient(0).Get(ctx, server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPError_Error(t *testing.T) {
	t.Parallel()

	err := httpclient.NewHTTPError(http.StatusNotFound, "http://backend/api", "404 Not Found")
	assert.Equal(t, "HTTP 404 for URL http://backend/api: 404 Not Found", err.Error())
}
