// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

const probeTimeout = 5 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name    string
	checker Checker
}

// Handler serves the liveness and readiness probes. Liveness is a pure
// process check; readiness also pings every registered dependency.
type Handler struct {
	deps     []dependency
	ready    atomic.Bool
	shutdown atomic.Bool
}

func NewHandler(db, redis Checker) *Handler {
	h := &Handler{
		deps: []dependency{
			{name: "database", checker: db},
			{name: "redis", checker: redis},
		},
	}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		writeJSON(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		writeJSON(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	if !h.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "not_ready",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	checks := h.probeAll(ctx)

	status, code := "ok", http.StatusOK
	for _, check := range checks {
		if !check.Healthy {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, code, ReadinessResponse{Status: status, Checks: checks})
}

func (h *Handler) probeAll(ctx context.Context) []HealthCheck {
	checks := make([]HealthCheck, len(h.deps))

	var wg sync.WaitGroup
	for i, dep := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checks[i] = probe(ctx, dep)
		}()
	}
	wg.Wait()

	return checks
}

func probe(ctx context.Context, dep dependency) HealthCheck {
	check := HealthCheck{Name: dep.name, Healthy: true}

	if dep.checker == nil {
		check.Healthy = false
		check.Message = "checker not configured"
		return check
	}

	start := time.Now()
	err := dep.checker.Ping(ctx)
	check.Latency = time.Since(start).String()

	if err != nil {
		check.Healthy = false
		check.Message = "ping failed"
	}

	return check
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// SetShutdown flips both probes to 503 so load balancers drain this
// instance before the listener closes.
func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
