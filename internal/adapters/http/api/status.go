package api

import (
	"context"
	"net/http"
)

// Status is the console's view of itself and its backend.
type Status struct {
	APIBase        string  `json:"api_base"`
	BackendURL     string  `json:"backend_url"`
	Backend        string  `json:"backend"`
	BackendHealthy bool    `json:"backend_healthy"`
	BackendError   string  `json:"backend_error,omitempty"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// StatusProvider reports the current Status.
type StatusProvider interface {
	Status(ctx context.Context) Status
}

// StatusHandler handles status requests.
type StatusHandler struct {
	provider StatusProvider
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(provider StatusProvider) *StatusHandler {
	return &StatusHandler{provider: provider}
}

// HandleStatus handles GET /status requests.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Status(r.Context()))
}
