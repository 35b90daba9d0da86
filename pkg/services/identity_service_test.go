package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/cache"
)

func TestIdentityService_Resolve_BackfillsStaffAndCaches(t *testing.T) {
	provider := scenarioProvider(t)
	svc := NewIdentityService(provider, newTestAside(t), zaptest.NewLogger(t))

	bundle, outcome, err := svc.Resolve(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, cache.Miss, outcome)

	assert.Equal(t, "42", bundle.ParticipantID)
	assert.Equal(t, []string{"100", "200"}, bundle.EntityIDs)
	assert.Equal(t, []string{"1", "3"}, bundle.SubEntityIDs["100"])
	assert.Equal(t, []string{"2"}, bundle.SubEntityIDs["200"])
	assert.Equal(t, map[string]string{"100": "9", "200": "7"}, bundle.ResponsibleStaff)
	assert.Equal(t, "Bilan", bundle.Titles["100"])
	require.NotNil(t, bundle.AccessCode)
	assert.Equal(t, "ABC", *bundle.AccessCode)
	assert.Empty(t, bundle.StaffMissing)
	assert.NotContains(t, bundle.EntityIDs, "300")
	assert.Equal(t, 0, provider.count("adf:200|"), "entity with staff must not be backfilled")

	again, outcome, err := svc.Resolve(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, cache.Hit, outcome)
	assert.Equal(t, bundle, again)
	assert.Equal(t, 1, provider.count("participants:"+testEmail))
}

func TestIdentityService_Resolve_MissingEmail(t *testing.T) {
	provider := newFakeProvider()
	svc := NewIdentityService(provider, newTestAside(t), zaptest.NewLogger(t))

	_, _, err := svc.Resolve(context.Background(), "   ")

	assert.ErrorIs(t, err, apperrors.ErrMissingIdentity)
	assert.Zero(t, provider.total())
}

func TestIdentityService_Resolve_ParticipantNotFoundIsNotCached(t *testing.T) {
	provider := newFakeProvider().on("participants:"+testEmail, jsonBody(t, `[]`))
	svc := NewIdentityService(provider, newTestAside(t), zaptest.NewLogger(t))

	_, _, err := svc.Resolve(context.Background(), testEmail)
	assert.ErrorIs(t, err, apperrors.ErrParticipantNotFound)

	_, _, err = svc.Resolve(context.Background(), testEmail)
	assert.ErrorIs(t, err, apperrors.ErrParticipantNotFound)
	assert.Equal(t, 2, provider.count("participants:"+testEmail))
}

func TestIdentityService_Resolve_ParticipantWithoutID(t *testing.T) {
	provider := newFakeProvider().on("participants:"+testEmail, jsonBody(t, `{"id_participant": ""}`))
	svc := NewIdentityService(provider, newTestAside(t), zaptest.NewLogger(t))

	_, _, err := svc.Resolve(context.Background(), testEmail)

	assert.ErrorIs(t, err, apperrors.ErrParticipantNotFound)
}

func TestIdentityService_Resolve_UpstreamErrorPropagates(t *testing.T) {
	provider := newFakeProvider().fail("participants:"+testEmail,
		&apperrors.UpstreamError{Endpoint: "participants", Status: 403, Details: map[string]any{"error": "forbidden"}})
	svc := NewIdentityService(provider, newTestAside(t), zaptest.NewLogger(t))

	_, _, err := svc.Resolve(context.Background(), testEmail)

	upErr, ok := apperrors.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, 403, upErr.Status)
}

func TestIdentityService_Resolve_EnrolmentFailureDegradesToNoEntities(t *testing.T) {
	provider := newFakeProvider().
		on("participants:"+testEmail, jsonBody(t, `{"id_participant": "42"}`)).
		fail("laps:42", apperrors.ErrUpstreamTimeout)
	svc := NewIdentityService(provider, newTestAside(t), zaptest.NewLogger(t))

	bundle, _, err := svc.Resolve(context.Background(), testEmail)

	require.NoError(t, err)
	assert.Equal(t, "42", bundle.ParticipantID)
	assert.Empty(t, bundle.EntityIDs)
	assert.Nil(t, bundle.AccessCode)
}

func TestIdentityService_Resolve_EnrolmentFailureIsNotCached(t *testing.T) {
	provider := scenarioProvider(t).fail("laps:42", apperrors.ErrUpstreamTimeout)
	svc := NewIdentityService(provider, newTestAside(t), zaptest.NewLogger(t))

	partial, outcome, err := svc.Resolve(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, cache.Miss, outcome)
	assert.Empty(t, partial.EntityIDs)
	assert.True(t, partial.Incomplete)

	provider.heal("laps:42")

	recovered, outcome, err := svc.Resolve(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, cache.Miss, outcome)
	assert.Equal(t, []string{"100", "200"}, recovered.EntityIDs)
	assert.False(t, recovered.Incomplete)

	_, outcome, err = svc.Resolve(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, cache.Hit, outcome)
	assert.Equal(t, 2, provider.count("laps:42"))
}

func TestIdentityService_Resolve_EmailCaseSharesCacheEntry(t *testing.T) {
	provider := scenarioProvider(t)
	svc := NewIdentityService(provider, newTestAside(t), zaptest.NewLogger(t))

	_, _, err := svc.Resolve(context.Background(), testEmail)
	require.NoError(t, err)

	_, outcome, err := svc.Resolve(context.Background(), " User@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, cache.Hit, outcome)
	assert.Equal(t, 1, provider.count("participants:"+testEmail))
}

func TestIdentityService_Resolve_FailedBackfillReportsStaffMissing(t *testing.T) {
	provider := scenarioProvider(t).fail("adf:100|", errors.New("boom"))
	svc := NewIdentityService(provider, newTestAside(t), zaptest.NewLogger(t))

	bundle, _, err := svc.Resolve(context.Background(), testEmail)

	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, bundle.StaffMissing)
	assert.Equal(t, map[string]string{"200": "7"}, bundle.ResponsibleStaff)
}
