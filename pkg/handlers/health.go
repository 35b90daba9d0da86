package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/config"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/logging"
)

// readinessTimeout bounds a single readiness probe.
const readinessTimeout = 2 * time.Second

// ServiceName identifies this process in /ping responses.
const ServiceName = "progress-dashboard"

// PingResponse describes the running process and its cache backend.
type PingResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Hostname    string `json:"hostname,omitempty"`
	Environment string `json:"environment"`
	Cache       string `json:"cache"`
}

// ReadinessResponse is returned by GET /ready.
type ReadinessResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
	Error  string `json:"error,omitempty"`
}

// ReadinessCheck reports whether a backing dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness, readiness and ping endpoints.
type HealthHandler struct {
	cfg    *config.Config
	ready  ReadinessCheck
	logger *zap.Logger
}

// NewHealthHandler creates a HealthHandler. A nil ready check always passes.
func NewHealthHandler(cfg *config.Config, ready ReadinessCheck, logger *zap.Logger) *HealthHandler {
	if ready == nil {
		ready = func(context.Context) error { return nil }
	}
	return &HealthHandler{cfg: cfg, ready: ready, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health. The provider is never contacted.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready handles GET /ready: 503 while the cache backend cannot be reached.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	resp := ReadinessResponse{Status: "ready", Cache: h.cfg.Cache.Backend}
	status := http.StatusOK
	if err := h.ready(ctx); err != nil {
		h.logger.Warn("Readiness check failed", zap.String("error", logging.SanitizeError(err)))
		resp.Status = "unavailable"
		resp.Error = logging.SanitizeError(err)
		status = http.StatusServiceUnavailable
	}

	if err := WriteJSON(w, status, resp); err != nil {
		h.logger.Error("Failed to encode readiness response", zap.Error(err))
	}
}

// Ping handles GET /ping.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, _ := os.Hostname()

	resp := PingResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     ServiceName,
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Environment: h.cfg.Env,
		Cache:       h.cfg.Cache.Backend,
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}
