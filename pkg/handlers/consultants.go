package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/auth"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/services"
)

// ConsultantsHandler serves the trainers assigned to entities.
type ConsultantsHandler struct {
	consultants services.ConsultantService
	logger      *zap.Logger
}

// NewConsultantsHandler creates a new consultants handler.
func NewConsultantsHandler(consultants services.ConsultantService, logger *zap.Logger) *ConsultantsHandler {
	return &ConsultantsHandler{
		consultants: consultants,
		logger:      logger,
	}
}

// RegisterRoutes registers the consultants handler's routes on the given mux.
func (h *ConsultantsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/adf/consultants", h.List)
	mux.HandleFunc("POST /api/adf/consultants", h.List)
}

// List handles GET and POST /api/adf/consultants
// Entity ids come from the body "adfIds" array, then the "adfIds" or "id_action_de_formation"
// query parameter (comma-separated), then a single body "adfId". Without any, the caller's own
// entities are used.
func (h *ConsultantsHandler) List(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)

	var entityIDs []string
	if ids, ok := listField(body, "adfIds"); ok {
		entityIDs = ids
	} else if raw := firstQuery(r, "adfIds", "id_action_de_formation"); raw != "" {
		entityIDs = splitList(raw)
	} else if id := jsonutil.FirstID(body, "adfId", "id_action_de_formation"); id != "" {
		entityIDs = []string{id}
	}

	resp, err := h.consultants.Consultants(r.Context(), entityIDs, auth.RequestEmail(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeOK(w, h.logger, resp)
}
