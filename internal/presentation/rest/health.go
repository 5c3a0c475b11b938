package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// ReadinessCheck is one named dependency probe.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler provides HTTP health check endpoints for the scoring service.
type HealthHandler struct {
	logger    *slog.Logger
	startTime time.Time
	service   string
	version   string
	checks    []ReadinessCheck
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(service, version string, logger *slog.Logger, checks ...ReadinessCheck) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		service:   service,
		version:   version,
		checks:    checks,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Checks  map[string]string `json:"checks"`
	Status  string            `json:"status"`
	Service string            `json:"service"`
}

// RootResponse is the service banner.
type RootResponse struct {
	Message   string   `json:"message"`
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// Endpoints lists the public HTTP surface, in banner order.
var Endpoints = []string{
	"/health", "/auth/login", "/auth/me", "/predict", "/predict_slim", "/predict/batch",
	"/model-info", "/statistics", "/portfolio/clients", "/portfolio/statistics", "/metrics",
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Root handles the service banner.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message:   "Credit Scoring API",
		Status:    "running",
		Version:   h.version,
		Endpoints: Endpoints,
	})
}

// Health handles liveness probe requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Timestamp: time.Now().UTC(),
		Status:    "healthy",
		Service:   h.service,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Readyz handles readiness probe requests.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := ReadinessResponse{
		Checks:  make(map[string]string, len(h.checks)),
		Status:  "ready",
		Service: h.service,
	}
	status := http.StatusOK
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.logger.WarnContext(ctx, "readiness check failed",
				slog.String("check", c.Name),
				slog.String("error", err.Error()),
			)
			resp.Checks[c.Name] = err.Error()
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.Name] = "ok"
	}
	writeJSON(w, status, resp)
}
