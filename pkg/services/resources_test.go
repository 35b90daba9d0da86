package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
)

func TestStaffService(t *testing.T) {
	provider := newFakeProvider().
		on("admin:7", jsonBody(t, `{"id_administrateur": 7, "nom": "Bernard"}`)).
		on("admin:8", jsonBody(t, `{"message": "no record"}`))
	svc := NewStaffService(provider, zaptest.NewLogger(t))

	got, err := svc.Staff(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Bernard", got.(map[string]any)["nom"])

	got, err = svc.Staff(context.Background(), "8")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "no record"}, got)

	_, err = svc.Staff(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestFileService_AllSettled(t *testing.T) {
	provider := newFakeProvider().
		on("files:1", jsonBody(t, `{"fichiers": [{"nom": "a.pdf"}, {"nom": "b.pdf"}]}`)).
		on("files:2", jsonBody(t, `[{"nom": "c.pdf"}]`)).
		fail("files:3", &apperrors.UpstreamError{Endpoint: "fichiers", Status: 403, Details: map[string]any{"error": "denied"}}).
		fail("files:4", apperrors.ErrUpstreamTimeout)
	svc := NewFileService(NewIdentityService(provider, newTestAside(t), zaptest.NewLogger(t)), provider, zaptest.NewLogger(t))

	resp, err := svc.SharedFiles(context.Background(), []string{"1", "2", "1", "3", "4"})

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, resp.LapIDs)
	assert.Len(t, resp.Files, 3)
	assert.Equal(t, map[string]any{"error": "denied"}, resp.PerLap["3"])
	assert.Equal(t, map[string]any{"error": "Upstream request timed out"}, resp.PerLap["4"])
	assert.Equal(t, 1, provider.count("files:1"))
}

func TestFileService_NoIDs(t *testing.T) {
	svc := NewFileService(nil, newFakeProvider(), zaptest.NewLogger(t))

	_, err := svc.SharedFiles(context.Background(), []string{" ", ""})

	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestTaskService_CountsPendingSignatures(t *testing.T) {
	provider := newFakeProvider().on("tasks:42", jsonBody(t, `{
		"counts": {"esignature": "2"},
		"taches": [{"type": "esignature"}, {"type": "esignature"}, {"type": "document"}]
	}`))
	svc := NewTaskService(provider, zaptest.NewLogger(t))

	resp, err := svc.Tasks(context.Background(), "42")

	require.NoError(t, err)
	assert.Equal(t, "42", resp.ParticipantID)
	assert.Equal(t, 2, resp.PendingSignatures)
	assert.Len(t, resp.Tasks, 3)
	assert.NotNil(t, resp.Raw)
}

func TestTaskService_SingleTaskObject(t *testing.T) {
	provider := newFakeProvider().on("tasks:42", jsonBody(t, `{"id_tache": "5", "type": "esignature"}`))
	svc := NewTaskService(provider, zaptest.NewLogger(t))

	resp, err := svc.Tasks(context.Background(), "42")

	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "esignature", resp.Tasks[0].(map[string]any)["type"])
}

func TestTaskService_UnexpectedShape(t *testing.T) {
	provider := newFakeProvider().on("tasks:42", jsonBody(t, `"nothing"`))
	svc := NewTaskService(provider, zaptest.NewLogger(t))

	resp, err := svc.Tasks(context.Background(), "42")

	require.NoError(t, err)
	assert.Zero(t, resp.PendingSignatures)
	assert.Empty(t, resp.Tasks)

	_, err = svc.Tasks(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestCalendarService_FiltersByEntity(t *testing.T) {
	provider := newFakeProvider().on("participant-sessions:42", jsonBody(t, `{"data": [
		{"id_creneau": 1, "id_action_de_formation": 100},
		{"id_creneau": 2, "id_action_de_formation": "200"},
		{"id_creneau": 3, "id_action_de_formation": 300}
	]}`))
	svc := NewCalendarService(provider, zaptest.NewLogger(t))

	all, err := svc.Sessions(context.Background(), "42", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.Sessions(context.Background(), "42", []string{"100", "200"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestCalendarService_SingleSessionObject(t *testing.T) {
	provider := newFakeProvider().on("participant-sessions:42", jsonBody(t, `{"id_creneau": "1", "id_action_de_formation": "100"}`))
	svc := NewCalendarService(provider, zaptest.NewLogger(t))

	sessions, err := svc.Sessions(context.Background(), "42", nil)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	filtered, err := svc.Sessions(context.Background(), "42", []string{"100"})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestCalendarService_UnknownShapeYieldsNoSessions(t *testing.T) {
	provider := newFakeProvider().on("participant-sessions:42", jsonBody(t, `{"message": "none"}`))
	svc := NewCalendarService(provider, zaptest.NewLogger(t))

	sessions, err := svc.Sessions(context.Background(), "42", nil)

	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestCalendarService_CreneauxWrapper(t *testing.T) {
	provider := newFakeProvider().on("participant-sessions:42", jsonBody(t, `{"creneaux": [{"id_creneau": 1}, {"id_creneau": 2}]}`))
	svc := NewCalendarService(provider, zaptest.NewLogger(t))

	sessions, err := svc.Sessions(context.Background(), "42", nil)

	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestCacheAdminService_ClearsDefaultEndpoints(t *testing.T) {
	provider := scenarioProvider(t).on("evaluations:|42", jsonBody(t, `[]`))
	aside := newTestAside(t)
	logger := zaptest.NewLogger(t)
	identity := NewIdentityService(provider, aside, logger)
	competencies := NewCompetencyService(identity, provider, aside, logger)
	admin := NewCacheAdminService(aside, logger)

	_, _, err := competencies.Competencies(context.Background(), testEmail)
	require.NoError(t, err)

	result, err := admin.Clear(context.Background(), testEmail, "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, map[string]bool{CacheEndpointCompetencies: true, CacheEndpointIdentity: true}, result.Cleared)
	assert.Equal(t, "Cache cleared for 2 endpoint(s)", result.Message)

	_, _, err = competencies.Competencies(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.count("participants:"+testEmail))
	assert.Equal(t, 2, provider.count("evaluations:|42"))
}

func TestCacheAdminService_SingleEndpointAndValidation(t *testing.T) {
	admin := NewCacheAdminService(newTestAside(t), zaptest.NewLogger(t))

	result, err := admin.Clear(context.Background(), testEmail, "get-adf")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"get-adf": true}, result.Cleared)

	_, err = admin.Clear(context.Background(), "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}
