package rest

import (
	"net/http"
	"time"
)

// HealthHandler provides HTTP health check endpoints for the risk engine.
type HealthHandler struct {
	startTime time.Time
	strategy  string
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(strategy string) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		strategy:  strategy,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Strategy string `json:"strategy"`
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "riskd",
		Uptime:  time.Since(h.startTime).Truncate(time.Second).String(),
	})
}

// Readyz handles readiness probe requests.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, ReadinessResponse{
		Status:   "ready",
		Service:  "riskd",
		Strategy: h.strategy,
	})
}
