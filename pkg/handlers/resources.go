package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/auth"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/services"
)

// ResourcesHandler serves staff details, shared files, tasks and calendar sessions.
// Only lap-files without explicit ids resolves the caller's identity.
type ResourcesHandler struct {
	staff    services.StaffService
	files    services.FileService
	tasks    services.TaskService
	calendar services.CalendarService
	logger   *zap.Logger
}

// NewResourcesHandler creates a new resources handler.
func NewResourcesHandler(
	staff services.StaffService,
	files services.FileService,
	tasks services.TaskService,
	calendar services.CalendarService,
	logger *zap.Logger,
) *ResourcesHandler {
	return &ResourcesHandler{
		staff:    staff,
		files:    files,
		tasks:    tasks,
		calendar: calendar,
		logger:   logger,
	}
}

// RegisterRoutes registers the resources handler's routes on the given mux.
func (h *ResourcesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/staff", h.Staff)
	mux.HandleFunc("GET /api/lap-files", h.LapFiles)
	mux.HandleFunc("GET /api/taches", h.Tasks)
	mux.HandleFunc("POST /api/taches", h.Tasks)
	mux.HandleFunc("GET /api/calendar", h.Calendar)
	mux.HandleFunc("POST /api/calendar", h.Calendar)
}

// Staff handles GET /api/staff?id={administratorID}
func (h *ResourcesHandler) Staff(w http.ResponseWriter, r *http.Request) {
	record, err := h.staff.Staff(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeOK(w, h.logger, record)
}

// LapFiles handles GET /api/lap-files?lap_ids=1,2,3
// Without lap_ids, the enrolments of the caller (token or ?email=) are used.
func (h *ResourcesHandler) LapFiles(w http.ResponseWriter, r *http.Request) {
	var (
		resp *models.LapFilesResponse
		err  error
	)
	if raw := firstQuery(r, "lap_ids", "lapIds"); raw != "" {
		resp, err = h.files.SharedFiles(r.Context(), splitList(raw))
	} else if email := auth.RequestEmail(r); email != "" {
		resp, err = h.files.UserFiles(r.Context(), email)
	} else {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Missing 'lap_ids' query parameter")
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeOK(w, h.logger, resp)
}

// Tasks handles GET and POST /api/taches
// The participant id is read from the body ("participantId" or "id_participant") or the query string.
func (h *ResourcesHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)

	resp, err := h.tasks.Tasks(r.Context(), participantParam(r, body))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeOK(w, h.logger, resp)
}

// Calendar handles GET and POST /api/calendar
// Sessions may be restricted with an "adfIds" body array or comma-separated query parameter.
func (h *ResourcesHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	body := requestBody(r)

	entityIDs, ok := listField(body, "adfIds")
	if !ok {
		entityIDs = splitList(firstQuery(r, "adfIds"))
	}

	sessions, err := h.calendar.Sessions(r.Context(), participantParam(r, body), entityIDs)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeOK(w, h.logger, sessions)
}
