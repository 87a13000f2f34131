package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/sommelier/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/sommelier/internal/version"
)

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]string{
		"status": "active",
		"app":    "sommelier",
	}, http.StatusOK)
}

// Info returns version and uptime.
func (h *Handlers) Info(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"name":           "sommelier",
		"version":        version.Version,
		"uptime_seconds": int64(time.Since(h.StartTime).Seconds()),
	}, http.StatusOK)
}
