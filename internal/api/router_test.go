package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dallenport/jobpilot/internal/api"
	mw "github.com/dallenport/jobpilot/internal/api/middleware"
	"github.com/dallenport/jobpilot/internal/cache"
	"github.com/dallenport/jobpilot/internal/orchestrator"
	"github.com/dallenport/jobpilot/internal/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- stub cache ---

type stubCache struct{}

func (c *stubCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (c *stubCache) Get(_ context.Context, _ string) ([]byte, bool, error)            { return nil, false, nil }
func (c *stubCache) Delete(_ context.Context, _ string) error                         { return nil }
func (c *stubCache) Ping(_ context.Context) error                                     { return nil }
func (c *stubCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

// --- router tests ---

func newTestRouter() http.Handler {
	sessions := session.NewManager(func(id uuid.UUID) *orchestrator.Orchestrator {
		return orchestrator.New(id, nil, nil, 5)
	}, time.Hour)

	return api.NewRouter(api.Dependencies{
		Auth:      mw.NewAuth(sessions),
		RateLimit: mw.NewRateLimit(&stubCache{}, 60),
		HealthHandler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		},
	})
}

func TestRouter_HealthEndpoint_Public(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_LoginEndpoint_Public(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("POST", "/api/v1/session/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// No handler wired, but no auth required either
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestRouter_ProtectedEndpoints_RequireAuth(t *testing.T) {
	router := newTestRouter()

	endpoints := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/documents"},
		{"GET", "/api/v1/jobs"},
		{"POST", "/api/v1/jobs/refresh"},
		{"PUT", "/api/v1/jobs/count"},
		{"POST", "/api/v1/jobs/selection"},
		{"POST", "/api/v1/jobs/apply"},
		{"POST", "/api/v1/jobs/apply-all"},
		{"POST", "/api/v1/jobs/j1/apply"},
		{"POST", "/api/v1/jobs/j1/reject"},
		{"GET", "/api/v1/applications"},
		{"GET", "/api/v1/applications/history"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			req := httptest.NewRequest(ep.method, ep.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			errObj := body["error"].(map[string]any)
			assert.Equal(t, "INVALID_TOKEN", errObj["code"])
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/nonexistent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

var _ cache.Cache = (*stubCache)(nil)
