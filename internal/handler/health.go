package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/segyhp/clinic-finance-engine/pkg/response"
)

// Pinger is a dependency the readiness check pings
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler probing every named dependency.
// Nil dependencies are skipped.
func NewHealthHandler(timeout time.Duration, checks map[string]Pinger) *HealthHandler {
	active := make(map[string]Pinger, len(checks))
	for name, pinger := range checks {
		if pinger != nil {
			active[name] = pinger
		}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthHandler{checks: active, timeout: timeout}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready performs readiness check including database and redis connectivity.
// The engine still answers from built-in fee schedules when they are down, so
// failures are reported as "degraded" with a 200.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	for name, pinger := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		err := pinger.Ping(ctx)
		cancel()

		if err != nil {
			status.Status = "degraded"
			status.Checks[name] = "failed: " + err.Error()
		} else {
			status.Checks[name] = "ok"
		}
	}

	response.Success(w, status)
}
