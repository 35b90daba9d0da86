package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/audit"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/auth"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/services"
)

// ClearCacheRequest is the request body for clearing cached responses.
type ClearCacheRequest struct {
	Email    string `json:"email"`
	Endpoint string `json:"endpoint,omitempty"`
}

// CacheHandler handles cache administration requests.
type CacheHandler struct {
	admin   services.CacheAdminService
	auditor *audit.SecurityAuditor
	logger  *zap.Logger
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(admin services.CacheAdminService, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{
		admin:  admin,
		logger: logger,
	}
}

// WithAuditor records every successful clear on auditor.
func (h *CacheHandler) WithAuditor(auditor *audit.SecurityAuditor) *CacheHandler {
	h.auditor = auditor
	return h
}

// RegisterRoutes registers the cache handler's routes on the given mux.
func (h *CacheHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/cache/clear", h.Clear)
}

// Clear handles POST /api/cache/clear
// Deletes the cached responses of one email, for one endpoint or the default set.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)
	req := ClearCacheRequest{
		Email:    jsonutil.Text(body["email"]),
		Endpoint: jsonutil.Text(body["endpoint"]),
	}

	if req.Email == "" {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Email is required")
		return
	}

	result, err := h.admin.Clear(r.Context(), req.Email, req.Endpoint)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.auditor.LogCacheClear(auth.EmailFromContext(r.Context()), req.Email, result.Cleared, r.RemoteAddr)
	writeOK(w, h.logger, result)
}
