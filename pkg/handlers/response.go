package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/cache"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/logging"
)

// CacheHeader reports whether a response was served from the cache.
const CacheHeader = "X-Cache"

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// UpstreamErrorBody is the error payload relayed when the provider answered with a failure status.
type UpstreamErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details any    `json:"details"`
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeCached writes data with the X-Cache header set from outcome.
func writeCached(w http.ResponseWriter, logger *zap.Logger, outcome cache.Outcome, data any) {
	w.Header().Set(CacheHeader, string(outcome))
	writeOK(w, logger, data)
}

func writeOK(w http.ResponseWriter, logger *zap.Logger, data any) {
	if err := WriteJSON(w, http.StatusOK, data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// writeServiceError maps a service error onto its HTTP status and error code.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var upErr *apperrors.UpstreamError

	switch {
	case errors.Is(err, apperrors.ErrMissingIdentity):
		writeError(w, logger, http.StatusBadRequest, "missing_identity", apperrors.ErrMissingIdentity.Error())
	case errors.Is(err, apperrors.ErrParticipantNotFound):
		writeError(w, logger, http.StatusNotFound, "participant_not_found", apperrors.ErrParticipantNotFound.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		writeError(w, logger, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.As(err, &upErr):
		status := upErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		logger.Warn("Upstream returned an error",
			zap.String("endpoint", upErr.Endpoint),
			zap.Int("status", upErr.Status))
		body := UpstreamErrorBody{
			Error:   "upstream_error",
			Message: "Upstream error",
			Status:  upErr.Status,
			Details: upErr.Details,
		}
		if err := WriteJSON(w, status, body); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
	case errors.Is(err, apperrors.ErrUpstreamTimeout):
		logger.Warn("Upstream timed out", zap.String("error", logging.SanitizeError(err)))
		writeError(w, logger, http.StatusBadGateway, "upstream_timeout", "Upstream request timed out")
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		logger.Warn("Upstream unavailable", zap.String("error", logging.SanitizeError(err)))
		writeError(w, logger, http.StatusBadGateway, "upstream_unavailable", "Upstream unavailable")
	default:
		logger.Error("Request failed", zap.String("error", logging.SanitizeError(err)))
		writeError(w, logger, http.StatusInternalServerError, "internal_error", "Unexpected error")
	}
}
