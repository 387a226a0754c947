package handlers

import (
	"net/http"

	"github.com/commercemesh/catalog-sync/internal/ports"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	registry ports.HealthRegistry
}

func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. It answers 200 while the process is
// able to serve at all; backend reachability is the readiness probe's job.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready. It probes the registered backends
// and reports per-check detail; any failure turns the whole probe into a
// 503 so the load balancer stops routing sync traffic here.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	ready := true
	for name, err := range h.registry.CheckAll(r.Context()) {
		if err != nil {
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	code := http.StatusOK
	status := "ready"
	if !ready {
		code = http.StatusServiceUnavailable
		status = "not_ready"
	}

	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
