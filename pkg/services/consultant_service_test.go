package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
)

func TestExtractConsultants_MergesDuplicates(t *testing.T) {
	body := jsonBody(t, `{"lafs": [
		{"id_laf": 1, "formateur": {"id_formateur": 5, "nom": "Martin", "photo_url": "  "}},
		{"id_laf": 2, "id_formateur": "5", "prenom_formateur": "Claire", "formateur": {"email_pro": "c.martin@example.com", "photo_url": "https://cdn/p.png"}},
		{"id_laf": 3, "nom_formateur": "Sans identifiant"},
		{"id_laf": 4, "id_formateur": 8, "nom_formateur": "Durand", "formateur": {"nom": 12}}
	]}`)

	got := ExtractConsultants(body)

	require.Len(t, got, 2)
	martin := got[0]
	assert.Equal(t, "5", martin.ID)
	assert.Equal(t, "Martin", *martin.LastName)
	assert.Equal(t, "Claire", *martin.FirstName)
	assert.Equal(t, "c.martin@example.com", *martin.EmailPro)
	assert.Equal(t, "https://cdn/p.png", *martin.PhotoURL)
	assert.Nil(t, martin.TelephonePro)

	durand := got[1]
	assert.Equal(t, "8", durand.ID)
	assert.Equal(t, "Durand", *durand.LastName)
}

func TestExtractConsultants_SingleObject(t *testing.T) {
	got := ExtractConsultants(jsonBody(t, `{"id_laf": 1, "formateur": {"id_formateur": 5}}`))

	require.Len(t, got, 1)
	assert.Equal(t, "5", got[0].ID)
	assert.Empty(t, ExtractConsultants(nil))
}

func TestConsultantService_ExplicitEntities(t *testing.T) {
	provider := newFakeProvider().
		on("lafs:100", jsonBody(t, `[{"id_formateur": 5, "formateur": {"nom": "Martin"}}]`)).
		on("lafs:200", jsonBody(t, `[{"id_formateur": 5}, {"id_formateur": 6}]`))
	svc := NewConsultantService(nil, provider, zaptest.NewLogger(t))

	resp, err := svc.Consultants(context.Background(), []string{"100", " 200", "100", ""}, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, resp.EntityIDs)
	assert.Len(t, resp.PerEntity["100"], 1)
	assert.Len(t, resp.PerEntity["200"], 2)
	require.Len(t, resp.Consultants, 2)
	assert.Equal(t, "Martin", *resp.Consultants[0].LastName)
}

func TestConsultantService_FallsBackToIdentityBundle(t *testing.T) {
	provider := scenarioProvider(t)
	logger := zaptest.NewLogger(t)
	svc := NewConsultantService(NewIdentityService(provider, newTestAside(t), logger), provider, logger)

	resp, err := svc.Consultants(context.Background(), nil, testEmail)

	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, resp.EntityIDs)
	assert.Equal(t, 1, provider.count("lafs:100"))
	assert.Equal(t, 1, provider.count("lafs:200"))
}

func TestConsultantService_MissingEntities(t *testing.T) {
	svc := NewConsultantService(nil, newFakeProvider(), zaptest.NewLogger(t))

	_, err := svc.Consultants(context.Background(), nil, "")

	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestConsultantService_AnyFailureFails(t *testing.T) {
	provider := newFakeProvider().
		on("lafs:100", jsonBody(t, `[]`)).
		fail("lafs:200", &apperrors.UpstreamError{Endpoint: "lafs", Status: 404, Details: map[string]any{"error": "unknown"}})
	svc := NewConsultantService(nil, provider, zaptest.NewLogger(t))

	_, err := svc.Consultants(context.Background(), []string{"100", "200"}, "")

	upErr, ok := apperrors.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, 404, upErr.Status)
}
