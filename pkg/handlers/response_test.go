package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/cache"
)

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, ErrorResponse(w, http.StatusNotFound, "participant_not_found", "no participant"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "participant_not_found", body["error"])
	assert.Equal(t, "no participant", body["message"])
}

func TestWriteJSON_UnencodableData(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteJSON(w, http.StatusOK, make(chan int))

	assert.Error(t, err)
}

func TestWriteCached_SetsHeader(t *testing.T) {
	w := httptest.NewRecorder()

	writeCached(w, zaptest.NewLogger(t), cache.Hit, map[string]string{"ok": "yes"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get(CacheHeader))
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing identity", apperrors.ErrMissingIdentity, http.StatusBadRequest, "missing_identity"},
		{"participant not found", fmt.Errorf("resolve: %w", apperrors.ErrParticipantNotFound), http.StatusNotFound, "participant_not_found"},
		{"invalid request", fmt.Errorf("%w: missing 'id' parameter", apperrors.ErrInvalidRequest), http.StatusBadRequest, "invalid_request"},
		{"timeout", fmt.Errorf("laps: %w", apperrors.ErrUpstreamTimeout), http.StatusBadGateway, "upstream_timeout"},
		{"unavailable", fmt.Errorf("laps: %w: dial tcp", apperrors.ErrUpstreamUnavailable), http.StatusBadGateway, "upstream_unavailable"},
		{"upstream status", &apperrors.UpstreamError{Endpoint: "lafs", Status: http.StatusForbidden}, http.StatusForbidden, "upstream_error"},
		{"upstream odd status", &apperrors.UpstreamError{Endpoint: "lafs", Status: 302}, http.StatusBadGateway, "upstream_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		{"canceled", context.Canceled, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			writeServiceError(w, zaptest.NewLogger(t), tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]any
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.code, body["error"])
		})
	}
}

func TestWriteServiceError_RelaysUpstreamDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := fmt.Errorf("trainer lookup for 100: %w", &apperrors.UpstreamError{
		Endpoint: "lafs",
		Status:   http.StatusNotFound,
		Details:  map[string]any{"error": "unknown action"},
	})

	writeServiceError(w, zaptest.NewLogger(t), err)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body UpstreamErrorBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Upstream error", body.Message)
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, map[string]any{"error": "unknown action"}, body.Details)
}
