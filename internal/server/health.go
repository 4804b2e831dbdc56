package server

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the health of an individual component
type ComponentStatus string

const (
	ComponentStatusUp       ComponentStatus = "up"
	ComponentStatusDown     ComponentStatus = "down"
	ComponentStatusDegraded ComponentStatus = "degraded"
)

// Health is the /health response body.
type Health struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents the health of a single system component
type ComponentHealth struct {
	Status    ComponentStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	LatencyMs float64         `json:"latency_ms,omitempty"`
}

// handleHealth reports component-level detail; the store is the only
// dependency with a remote side.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := Health{
		Status:     HealthStatusHealthy,
		Timestamp:  time.Now().UTC(),
		Version:    s.cfg.Build.Version,
		Components: make(map[string]ComponentHealth),
	}

	storeHealth := s.checkStoreHealth(r.Context())
	health.Components["store"] = storeHealth
	if storeHealth.Status == ComponentStatusDown {
		health.Status = HealthStatusUnhealthy
	} else if storeHealth.Status == ComponentStatusDegraded {
		health.Status = HealthStatusDegraded
	}

	statusCode := http.StatusOK
	if health.Status == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

func (s *Server) checkStoreHealth(ctx context.Context) ComponentHealth {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		return ComponentHealth{
			Status:  ComponentStatusDown,
			Message: "store ping failed: " + err.Error(),
		}
	}

	latency := time.Since(start).Milliseconds()
	status := ComponentStatusUp
	message := "store healthy"
	if latency > 1000 {
		status = ComponentStatusDegraded
		message = "store latency high"
	}

	return ComponentHealth{
		Status:    status,
		Message:   message,
		LatencyMs: float64(latency),
	}
}

// handleReady provides a simple readiness probe for load balancers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "store unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleLive provides a liveness probe (is the process running?).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
