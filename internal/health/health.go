// Package health serves the assistant's HTTP probe endpoints.
//
//   - /healthz — liveness; 200 whenever the process can serve HTTP.
//   - /readyz  — readiness; 200 only when every registered [Check] passes.
//   - /statusz — a JSON snapshot of the voice loop (state, cycle counts,
//     supported intents), fed by the [StatusFunc] given at construction.
//
// The endpoints are mounted on the same mux as /metrics so a single
// listen address covers all operational surfaces.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// probeTimeout bounds each readiness check.
const probeTimeout = 3 * time.Second

// Check probes one dependency of the voice loop, e.g. the skills directory
// or the memory store. Probe returns nil when healthy and must respect ctx.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// StatusFunc returns a snapshot to serve from /statusz. The value is
// marshalled to JSON as-is.
type StatusFunc func() any

type probeResult struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler evaluates checks and serves the probe endpoints. The check list
// is fixed at construction; Handler is safe for concurrent use.
type Handler struct {
	checks []Check
	status StatusFunc
}

// New creates a [Handler]. status may be nil, in which case /statusz
// returns 404.
func New(status StatusFunc, checks ...Check) *Handler {
	cs := make([]Check, len(checks))
	copy(cs, checks)
	return &Handler{checks: cs, status: status}
}

// Register mounts the probe routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.HandleFunc("GET /statusz", h.statusz)
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, probeResult{Status: "ok"})
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(h.checks))
	ready := true

	for _, c := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		err := c.Probe(ctx)
		cancel()

		if err != nil {
			checks[c.Name] = "fail: " + err.Error()
			ready = false
		} else {
			checks[c.Name] = "ok"
		}
	}

	res := probeResult{Status: "ok", Checks: checks}
	code := http.StatusOK
	if !ready {
		res.Status = "fail"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, res)
}

func (h *Handler) statusz(w http.ResponseWriter, _ *http.Request) {
	if h.status == nil {
		http.NotFound(w, nil)
		return
	}
	writeJSON(w, http.StatusOK, h.status())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}
}
