package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/audit"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
)

type stubCacheAdmin struct {
	email    string
	endpoint string
}

func (s *stubCacheAdmin) Clear(_ context.Context, email, endpoint string) (*models.CacheClearResult, error) {
	s.email, s.endpoint = email, endpoint
	return &models.CacheClearResult{
		Success: true,
		Cleared: map[string]bool{endpoint: true},
		Message: "Cache cleared for 1 endpoint(s)",
	}, nil
}

func TestCacheHandler_AuditsClear(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	admin := &stubCacheAdmin{}
	h := NewCacheHandler(admin, zaptest.NewLogger(t)).WithAuditor(audit.NewSecurityAuditor(zap.New(core)))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/cache/clear", strings.NewReader(`{"email": "a@example.com", "endpoint": "get-adf"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", admin.email)
	assert.Equal(t, "get-adf", admin.endpoint)
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, string(audit.EventCacheCleared), recorded.All()[0].ContextMap()["event_type"])
}

func TestCacheHandler_MissingEmailIsNotAudited(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	h := NewCacheHandler(&stubCacheAdmin{}, zaptest.NewLogger(t)).WithAuditor(audit.NewSecurityAuditor(zap.New(core)))

	rec := httptest.NewRecorder()
	h.Clear(rec, httptest.NewRequest(http.MethodPost, "/api/cache/clear", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, recorded.Len())
}
