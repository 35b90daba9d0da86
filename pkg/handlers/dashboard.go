package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/auth"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/services"
)

// DashboardHandler serves the identity, competencies and progress views of the signed-in user.
type DashboardHandler struct {
	identity     services.IdentityService
	competencies services.CompetencyService
	metrics      services.MetricsService
	logger       *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(
	identity services.IdentityService,
	competencies services.CompetencyService,
	metrics services.MetricsService,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		identity:     identity,
		competencies: competencies,
		metrics:      metrics,
		logger:       logger,
	}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/adf", h.Identity)
	mux.HandleFunc("GET /api/adf/competencies", h.Competencies)
	mux.HandleFunc("GET /api/adf/metrics", h.EntityMetrics)
	mux.HandleFunc("GET /api/adf/progress", h.Progress)
}

// Identity handles GET /api/adf
// Returns the caller's identity bundle (participant, entities, enrolments, staff).
func (h *DashboardHandler) Identity(w http.ResponseWriter, r *http.Request) {
	bundle, outcome, err := h.identity.Resolve(r.Context(), auth.RequestEmail(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeCached(w, h.logger, outcome, bundle)
}

// Competencies handles GET /api/adf/competencies
func (h *DashboardHandler) Competencies(w http.ResponseWriter, r *http.Request) {
	resp, outcome, err := h.competencies.Competencies(r.Context(), auth.RequestEmail(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeCached(w, h.logger, outcome, resp)
}

// EntityMetrics handles GET /api/adf/metrics?id={entityID}
// Returns spent, remaining and total hours of one entity.
func (h *DashboardHandler) EntityMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.metrics.EntityMetrics(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeOK(w, h.logger, snapshot)
}

// Progress handles GET /api/adf/progress
// Returns the metrics of every entity of the caller and the global progress percentage.
func (h *DashboardHandler) Progress(w http.ResponseWriter, r *http.Request) {
	summary, err := h.metrics.Progress(r.Context(), auth.RequestEmail(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeOK(w, h.logger, summary)
}
