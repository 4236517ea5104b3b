package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

// HealthChecker is anything that can report its own reachability
type HealthChecker interface {
	Health(context.Context) error
}

// NewHealthHandler reports ok when every named checker passes, degraded
// with 503 otherwise. A nil map gives a plain liveness check.
func NewHealthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]string, len(checks))
		status := "ok"

		for name, checker := range checks {
			if err := checker.Health(r.Context()); err != nil {
				slog.Error("Health check failed", "service", name, "error", err)
				services[name] = "unhealthy"
				status = "degraded"
				continue
			}
			services[name] = "healthy"
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		respondJSON(w, code, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Services:  services,
		})
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
