package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/cache"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/logging"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/metrics"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/normalize"
)

var (
	accessCodeFields = []string{"code_acces", "access_code", "code_extranet"}
	staffFields      = []string{"id_administrateur", "id_responsable"}
	lapWrappers      = []string{"laps", "data", "items"}
)

// IdentityService resolves a user's email into the provider identifiers the dashboard needs.
type IdentityService interface {
	// Resolve returns the identity bundle of email, from the cache when possible.
	// Errors: apperrors.ErrMissingIdentity for a blank email, apperrors.ErrParticipantNotFound
	// when the provider knows no participant for it, and upstream errors from the participant lookup.
	Resolve(ctx context.Context, email string) (*models.IdentityBundle, cache.Outcome, error)
}

type identityService struct {
	provider Provider
	cache    *cache.Aside
	logger   *zap.Logger
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(provider Provider, aside *cache.Aside, logger *zap.Logger) IdentityService {
	return &identityService{
		provider: provider,
		cache:    aside,
		logger:   logger.Named("identity"),
	}
}

func (s *identityService) Resolve(ctx context.Context, email string) (*models.IdentityBundle, cache.Outcome, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		metrics.IdentityResolutions.WithLabelValues("missing_identity").Inc()
		return nil, cache.Miss, apperrors.ErrMissingIdentity
	}

	key := cache.Key{Endpoint: CacheEndpointIdentity, Identity: identityKey(email)}
	bundle, outcome, err := cache.GetOrLoadPartial(ctx, s.cache, key, func(ctx context.Context) (*models.IdentityBundle, bool, error) {
		return s.build(ctx, email)
	})
	switch {
	case err != nil:
		metrics.IdentityResolutions.WithLabelValues(resolutionResult(err)).Inc()
		return nil, outcome, err
	case outcome == cache.Hit:
		metrics.IdentityResolutions.WithLabelValues("cache_hit").Inc()
	default:
		metrics.IdentityResolutions.WithLabelValues("resolved").Inc()
	}
	return bundle, outcome, nil
}

func resolutionResult(err error) string {
	if errors.Is(err, apperrors.ErrParticipantNotFound) {
		return "not_found"
	}
	return "upstream_error"
}

// build runs the uncached pipeline: participant, enrolments, staff backfill.
// The bundle is reported as not cacheable when the enrolment lookup failed.
func (s *identityService) build(ctx context.Context, email string) (*models.IdentityBundle, bool, error) {
	body, err := s.provider.Participants(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("participant lookup: %w", err)
	}

	participants := normalize.Records(body, normalize.Options{IDProperty: "id_participant"})
	if len(participants) == 0 {
		return nil, false, apperrors.ErrParticipantNotFound
	}
	first := participants[0]
	participantID := jsonutil.ID(first["id_participant"])
	if participantID == "" {
		return nil, false, apperrors.ErrParticipantNotFound
	}

	bundle := &models.IdentityBundle{
		Email:            email,
		ParticipantID:    participantID,
		EntityIDs:        []string{},
		SubEntityIDs:     make(map[string][]string),
		Titles:           make(map[string]string),
		ResponsibleStaff: make(map[string]string),
	}
	if code := jsonutil.FirstText(first, accessCodeFields...); code != "" {
		bundle.AccessCode = &code
	}

	if err := s.collectEnrolments(ctx, bundle); err != nil {
		bundle.Incomplete = true
		s.logger.Warn("Enrolment lookup failed, continuing without entities",
			zap.String("participant_id", participantID),
			zap.String("error", logging.SanitizeError(err)))
	}
	s.backfillStaff(ctx, bundle)

	s.logger.Info("Resolved identity",
		zap.String("participant_id", participantID),
		zap.Int("entities", len(bundle.EntityIDs)),
		zap.Int("staff_missing", len(bundle.StaffMissing)),
		zap.Bool("incomplete", bundle.Incomplete))

	return bundle, !bundle.Incomplete, nil
}

// collectEnrolments reads the participant's enrolment records into bundle.
// On error the bundle is left without entities.
func (s *identityService) collectEnrolments(ctx context.Context, bundle *models.IdentityBundle) error {
	body, err := s.provider.Laps(ctx, bundle.ParticipantID)
	if err != nil {
		return fmt.Errorf("enrolment lookup: %w", err)
	}

	subSeen := make(map[string]map[string]bool)
	for _, rec := range normalize.Records(body, normalize.Options{IDProperty: "id_lap", WrapperProperties: lapWrappers}) {
		formation, _ := jsonutil.Object(rec["formation"])

		entityID := jsonutil.ID(rec["id_action_de_formation"])
		if entityID == "" {
			entityID = jsonutil.ID(formation["id_action_de_formation"])
		}
		if entityID == "" {
			continue
		}

		category := jsonutil.ID(formation["categorie_module_id"])
		if category == "" {
			category = jsonutil.ID(rec["categorie_module_id"])
		}
		if category != models.SkillsCategoryID {
			continue
		}

		if _, known := subSeen[entityID]; !known {
			subSeen[entityID] = make(map[string]bool)
			bundle.EntityIDs = append(bundle.EntityIDs, entityID)
			bundle.SubEntityIDs[entityID] = []string{}
		}

		if lapID := jsonutil.ID(rec["id_lap"]); lapID != "" && !subSeen[entityID][lapID] {
			subSeen[entityID][lapID] = true
			bundle.SubEntityIDs[entityID] = append(bundle.SubEntityIDs[entityID], lapID)
		}

		if _, ok := bundle.Titles[entityID]; !ok {
			title := jsonutil.FirstText(formation, "intitule")
			if title == "" {
				title = jsonutil.FirstText(rec, "intitule")
			}
			if title != "" {
				bundle.Titles[entityID] = title
			}
		}

		if _, ok := bundle.ResponsibleStaff[entityID]; !ok {
			staff := jsonutil.FirstID(rec, staffFields...)
			if staff == "" {
				staff = jsonutil.FirstID(formation, "id_administrateur")
			}
			if staff != "" {
				bundle.ResponsibleStaff[entityID] = staff
			}
		}
	}
	return nil
}

// backfillStaff looks up every entity still lacking responsible staff, concurrently.
// Lookups are all-settled; entities that remain unresolved are listed in StaffMissing.
func (s *identityService) backfillStaff(ctx context.Context, bundle *models.IdentityBundle) {
	var missing []string
	for _, entityID := range bundle.EntityIDs {
		if _, ok := bundle.ResponsibleStaff[entityID]; !ok {
			missing = append(missing, entityID)
		}
	}
	if len(missing) == 0 {
		return
	}

	found := make([]string, len(missing))
	titles := make([]string, len(missing))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, entityID := range missing {
		g.Go(func() error {
			body, err := s.provider.ActionDeFormation(gctx, entityID, "")
			if err != nil {
				metrics.StaffBackfills.WithLabelValues("failed").Inc()
				s.logger.Debug("Staff backfill failed",
					zap.String("entity_id", entityID),
					zap.String("error", logging.SanitizeError(err)))
				return nil
			}

			for _, rec := range normalize.Records(body, normalize.Options{IDProperty: "id_action_de_formation"}) {
				if found[i] == "" {
					found[i] = jsonutil.FirstID(rec, staffFields...)
				}
				if titles[i] == "" {
					titles[i] = jsonutil.FirstText(rec, "intitule")
				}
			}
			if found[i] == "" {
				metrics.StaffBackfills.WithLabelValues("empty").Inc()
			} else {
				metrics.StaffBackfills.WithLabelValues("filled").Inc()
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines never fail

	for i, entityID := range missing {
		if found[i] != "" {
			bundle.ResponsibleStaff[entityID] = found[i]
		} else {
			bundle.StaffMissing = append(bundle.StaffMissing, entityID)
		}
		if _, ok := bundle.Titles[entityID]; !ok && titles[i] != "" {
			bundle.Titles[entityID] = titles[i]
		}
	}
}
