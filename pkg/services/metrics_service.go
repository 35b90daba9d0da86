package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/duration"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/logging"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/normalize"
)

var sessionWrappers = []string{"creneaux", "data", "items"}

// MetricsService computes hour accounting for entities.
type MetricsService interface {
	// EntityMetrics returns spent, total and remaining hours of one entity.
	// Both provider lookups are required; either failing fails the call.
	EntityMetrics(ctx context.Context, entityID string) (*models.MetricSnapshot, error)

	// Progress computes the metrics of every entity of a user and the global progress.
	// Entities whose lookups fail are omitted and listed in Degraded.
	Progress(ctx context.Context, email string) (*models.ProgressSummary, error)
}

type metricsService struct {
	identity IdentityService
	provider Provider
	logger   *zap.Logger
}

// NewMetricsService creates a new MetricsService.
func NewMetricsService(identity IdentityService, provider Provider, logger *zap.Logger) MetricsService {
	return &metricsService{
		identity: identity,
		provider: provider,
		logger:   logger.Named("metrics"),
	}
}

func (s *metricsService) EntityMetrics(ctx context.Context, entityID string) (*models.MetricSnapshot, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return nil, fmt.Errorf("%w: missing 'id' parameter", apperrors.ErrInvalidRequest)
	}

	var entityBody, sessionsBody any

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := s.provider.ActionDeFormation(gctx, entityID, "creneaux")
		if err != nil {
			return fmt.Errorf("entity lookup: %w", err)
		}
		entityBody = body
		return nil
	})
	g.Go(func() error {
		body, err := s.provider.EntitySessions(gctx, entityID)
		if err != nil {
			return fmt.Errorf("session lookup: %w", err)
		}
		sessionsBody = body
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total, title := EntityTotal(entityBody)
	sessions := normalize.Records(sessionsBody, normalize.Options{IDProperty: "id_creneau", WrapperProperties: sessionWrappers})
	if title == "" {
		title = sessionTitle(sessions)
	}

	snapshot := Compose(entityID, title, SpentHours(sessions), total)
	return &snapshot, nil
}

func (s *metricsService) Progress(ctx context.Context, email string) (*models.ProgressSummary, error) {
	bundle, _, err := s.identity.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*models.MetricSnapshot, len(bundle.EntityIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, entityID := range bundle.EntityIDs {
		g.Go(func() error {
			snapshot, err := s.EntityMetrics(gctx, entityID)
			if err != nil {
				s.logger.Warn("Entity metrics unavailable",
					zap.String("entity_id", entityID),
					zap.String("error", logging.SanitizeError(err)))
				return nil
			}
			snapshots[i] = snapshot
			return nil
		})
	}
	_ = g.Wait()

	summary := &models.ProgressSummary{
		Email:    bundle.Email,
		Entities: make([]models.MetricSnapshot, 0, len(snapshots)),
	}
	percents := make([]int, 0, len(snapshots))
	for i, snapshot := range snapshots {
		entityID := bundle.EntityIDs[i]
		if snapshot == nil {
			summary.Degraded = append(summary.Degraded, entityID)
			continue
		}
		if snapshot.Title == "" {
			snapshot.Title = bundle.Titles[entityID]
		}
		summary.Entities = append(summary.Entities, *snapshot)
		percents = append(percents, snapshot.ProgressPercent)
	}
	summary.GlobalProgress = GlobalProgress(percents)

	return summary, nil
}

// EntityTotal reads total_heures_participants and the title from an entity body.
func EntityTotal(entityBody any) (float64, string) {
	records := normalize.Records(entityBody, normalize.Options{IDProperty: "id_action_de_formation"})
	if len(records) == 0 {
		return 0, ""
	}
	first := records[0]
	return duration.ParseDecimalHours(first["total_heures_participants"]), jsonutil.FirstText(first, "intitule")
}

// SpentHours sums heures_presence over sessions. A session carrying attendance lines (lcps)
// is summed over its lines instead. Non-positive values are ignored.
func SpentHours(sessions []map[string]any) float64 {
	var spent float64
	add := func(raw any) {
		if h := duration.ParseHours(raw); h > 0 {
			spent += h
		}
	}

	for _, session := range sessions {
		if lines, ok := session["lcps"].([]any); ok {
			for _, line := range normalize.Objects(lines) {
				add(line["heures_presence"])
			}
			continue
		}
		add(session["heures_presence"])
	}
	return spent
}

// sessionTitle returns the first formation.intitule found among sessions.
func sessionTitle(sessions []map[string]any) string {
	for _, session := range sessions {
		if formation, ok := jsonutil.Object(session["formation"]); ok {
			if title := jsonutil.FirstText(formation, "intitule"); title != "" {
				return title
			}
		}
	}
	return ""
}

// Compose builds a snapshot from raw hour figures, clamping both to >= 0.
func Compose(entityID, title string, spent, total float64) models.MetricSnapshot {
	spent = clampHours(spent)
	total = clampHours(total)
	return models.MetricSnapshot{
		EntityID:        entityID,
		Title:           title,
		SpentHours:      spent,
		TotalHours:      total,
		RemainingHours:  math.Max(0, total-spent),
		ProgressPercent: Percent(spent, total),
	}
}

// Percent is round(min(100, spent/total*100)), or 0 when total is not positive.
func Percent(spent, total float64) int {
	if total <= 0 || math.IsNaN(total) || math.IsNaN(spent) {
		return 0
	}
	p := math.Min(100, math.Max(0, spent)/total*100)
	return int(math.Round(p))
}

// GlobalProgress is the unweighted mean of per-entity percentages, rounded once.
func GlobalProgress(percents []int) int {
	if len(percents) == 0 {
		return 0
	}
	var sum int
	for _, p := range percents {
		sum += p
	}
	return int(math.Round(float64(sum) / float64(len(percents))))
}

func clampHours(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0
	}
	return h
}
