package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct{ err error }

func (s stubChecker) Health(context.Context) error { return s.err }

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &RouterConfig{Source: healthySource(), Upstream: stubChecker{}})

	rec := serve(router, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "healthy", body.Services["github"])
}

func TestHealth_UpstreamDown(t *testing.T) {
	router := newTestRouter(t, &RouterConfig{Source: healthySource(), Upstream: stubChecker{err: errors.New("connection refused")}})

	rec := serve(router, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unhealthy", body.Services["github"])
}

func TestHealth_NoUpstream(t *testing.T) {
	router := newTestRouter(t, &RouterConfig{Source: healthySource()})

	rec := serve(router, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, &RouterConfig{Source: healthySource()})

	serve(router, http.MethodGet, "/api/get-repos", "")
	rec := serve(router, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/api/get-repos",status="200"}`)
	assert.Contains(t, rec.Body.String(), "portfolio_heatmap_fallback_total")
}

func TestMetricsEndpoint_UnknownPathsShareOneSeries(t *testing.T) {
	router := newTestRouter(t, &RouterConfig{Source: healthySource()})

	for _, path := range []string{"/nope/", "/nope/x", "/nope/xx"} {
		assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, path, "").Code, path)
	}
	rec := serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="unmatched",status="404"}`)
	assert.NotContains(t, body, `path="/nope/`)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, &RouterConfig{
		Source:      healthySource(),
		CORSOrigins: []string{"https://portfolio.example"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/get-repos", nil)
	req.Header.Set("Origin", "https://portfolio.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "https://portfolio.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/get-repos", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	router := newTestRouter(t, &RouterConfig{Source: healthySource(), AllowAllOrigin: true})

	req := httptest.NewRequest(http.MethodOptions, "/api/save-config", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Limit: 2, Window: time.Minute})
	defer rl.Stop()

	clock := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"

	ok, _ := rl.Allow(req)
	assert.True(t, ok)
	clock = clock.Add(20 * time.Second)
	ok, _ = rl.Allow(req)
	assert.True(t, ok)

	ok, wait := rl.Allow(req)
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, wait)

	// a different client has its own window
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "203.0.113.8:5555"
	ok, _ = rl.Allow(other)
	assert.True(t, ok)

	// the first request slides out of the window
	clock = clock.Add(41 * time.Second)
	ok, _ = rl.Allow(req)
	assert.True(t, ok)
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Limit: 1, Window: time.Minute})
	defer rl.Stop()

	clock := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.Allow(httptest.NewRequest(http.MethodGet, "/", nil))
	clock = clock.Add(2 * time.Minute)
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.windows)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Limit: 1, Window: time.Minute, Message: "slow down"})
	defer rl.Stop()

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "slow down")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"unix-socket", "unix-socket"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		assert.Equal(t, tt.want, GetClientIP(req))
	}
}
