package services

import (
	"context"
	"strings"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/upstream"
)

// Cache endpoint names. Entries are keyed by (endpoint, email).
const (
	CacheEndpointIdentity     = "get-adf"
	CacheEndpointCompetencies = "adf-competencies"
)

// DefaultClearEndpoints are cleared when a cache clear names no endpoint.
var DefaultClearEndpoints = []string{CacheEndpointCompetencies, CacheEndpointIdentity}

// identityKey is the cache identity of an email. Emails are case-insensitive.
func identityKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// maxConcurrentLookups bounds per-request fan-out against the provider.
const maxConcurrentLookups = 8

// Provider is the read-only training provider surface the services depend on.
// Every method returns the decoded JSON body, whose shape must be normalized before use.
type Provider interface {
	Participants(ctx context.Context, email string) (any, error)
	Laps(ctx context.Context, participantID string) (any, error)
	Evaluations(ctx context.Context, entityID, participantID string) (any, error)
	ActionDeFormation(ctx context.Context, entityID, include string) (any, error)
	EntitySessions(ctx context.Context, entityID string) (any, error)
	ParticipantSessions(ctx context.Context, participantID string) (any, error)
	TrainerAssignments(ctx context.Context, entityID string) (any, error)
	Administrator(ctx context.Context, id string) (any, error)
	SharedFiles(ctx context.Context, lapID string) (any, error)
	Tasks(ctx context.Context, participantID string) (any, error)
}

var _ Provider = (*upstream.Client)(nil)
