package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/cache"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/evaluations"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/logging"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
)

// CompetencyService assembles the evaluations of every skills entity of a user.
type CompetencyService interface {
	// Competencies returns the user's entities with their deduplicated evaluations.
	// Identity resolution errors are returned unchanged; evaluation lookups never fail the call.
	Competencies(ctx context.Context, email string) (*models.CompetenciesResponse, cache.Outcome, error)
}

type competencyService struct {
	identity IdentityService
	provider Provider
	cache    *cache.Aside
	logger   *zap.Logger
}

// NewCompetencyService creates a new CompetencyService.
func NewCompetencyService(identity IdentityService, provider Provider, aside *cache.Aside, logger *zap.Logger) CompetencyService {
	return &competencyService{
		identity: identity,
		provider: provider,
		cache:    aside,
		logger:   logger.Named("competencies"),
	}
}

func (s *competencyService) Competencies(ctx context.Context, email string) (*models.CompetenciesResponse, cache.Outcome, error) {
	bundle, _, err := s.identity.Resolve(ctx, email)
	if err != nil {
		return nil, cache.Miss, err
	}

	// partial responses are served but not cached so the next call retries the failed lookups
	key := cache.Key{Endpoint: CacheEndpointCompetencies, Identity: identityKey(bundle.Email)}
	return cache.GetOrLoadPartial(ctx, s.cache, key, func(ctx context.Context) (*models.CompetenciesResponse, bool, error) {
		resp := s.build(ctx, bundle)
		return resp, !bundle.Incomplete && len(resp.Degraded) == 0, nil
	})
}

// build fetches all evaluations of the participant in one call, then falls back to one call
// per entity for entities the batched answer did not cover.
func (s *competencyService) build(ctx context.Context, bundle *models.IdentityBundle) *models.CompetenciesResponse {
	byEntity := make(map[string][]models.EvaluationRecord)

	if len(bundle.EntityIDs) > 0 {
		body, err := s.provider.Evaluations(ctx, "", bundle.ParticipantID)
		if err != nil {
			s.logger.Warn("Batched evaluation lookup failed, falling back to per-entity lookups",
				zap.String("participant_id", bundle.ParticipantID),
				zap.String("error", logging.SanitizeError(err)))
		} else {
			byEntity = evaluations.CollectByEntity(body)
		}
	}

	var pending []string
	for _, entityID := range bundle.EntityIDs {
		if len(byEntity[entityID]) == 0 {
			pending = append(pending, entityID)
		}
	}

	fallback, degraded := s.fetchPerEntity(ctx, bundle.ParticipantID, pending)
	for entityID, records := range fallback {
		byEntity[entityID] = records
	}

	resp := &models.CompetenciesResponse{
		Email:         bundle.Email,
		ParticipantID: bundle.ParticipantID,
		Entities:      make([]models.EntityCompetencies, 0, len(bundle.EntityIDs)),
		Degraded:      degraded,
	}
	for _, entityID := range bundle.EntityIDs {
		group := models.EntityCompetencies{
			EntityID:    entityID,
			Evaluations: byEntity[entityID],
		}
		if group.Evaluations == nil {
			group.Evaluations = []models.EvaluationRecord{}
		}
		if title, ok := bundle.Titles[entityID]; ok {
			group.Title = &title
		}
		resp.Entities = append(resp.Entities, group)
	}
	return resp
}

// fetchPerEntity looks up evaluations entity by entity, all-settled.
// The entity id is injected as the root id so records that do not name their entity are
// attributed to the one that was asked for.
func (s *competencyService) fetchPerEntity(ctx context.Context, participantID string, entityIDs []string) (map[string][]models.EvaluationRecord, []string) {
	results := make([][]models.EvaluationRecord, len(entityIDs))
	failed := make([]bool, len(entityIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, entityID := range entityIDs {
		g.Go(func() error {
			body, err := s.provider.Evaluations(gctx, entityID, participantID)
			if err != nil {
				failed[i] = true
				s.logger.Debug("Per-entity evaluation lookup failed",
					zap.String("entity_id", entityID),
					zap.String("error", logging.SanitizeError(err)))
				return nil
			}
			scoped := map[string]any{"id_action_de_formation": entityID, "payload": body}
			results[i] = evaluations.CollectByEntity(scoped)[entityID]
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]models.EvaluationRecord, len(entityIDs))
	var degraded []string
	for i, entityID := range entityIDs {
		if failed[i] {
			degraded = append(degraded, entityID)
			continue
		}
		out[entityID] = results[i]
	}
	if len(degraded) > 0 {
		s.logger.Info("Returning competencies with missing evaluations",
			zap.String("participant_id", participantID),
			zap.Strings("entities", degraded))
	}
	return out, degraded
}
