package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/normalize"
)

// CalendarService lists a participant's sessions.
type CalendarService interface {
	// Sessions returns the participant's sessions, restricted to entityIDs when any are given.
	Sessions(ctx context.Context, participantID string, entityIDs []string) ([]any, error)
}

type calendarService struct {
	provider Provider
	logger   *zap.Logger
}

// NewCalendarService creates a new CalendarService.
func NewCalendarService(provider Provider, logger *zap.Logger) CalendarService {
	return &calendarService{
		provider: provider,
		logger:   logger.Named("calendar"),
	}
}

func (s *calendarService) Sessions(ctx context.Context, participantID string, entityIDs []string) ([]any, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return nil, fmt.Errorf("%w: missing 'participantId' parameter", apperrors.ErrInvalidRequest)
	}

	body, err := s.provider.ParticipantSessions(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}

	all := normalize.ToArray(body, sessionOptions)
	filter := uniqueNonEmpty(entityIDs)
	if len(filter) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(filter))
	for _, id := range filter {
		wanted[id] = true
	}
	filtered := make([]any, 0, len(all))
	for _, item := range all {
		session, ok := jsonutil.Object(item)
		if ok && wanted[jsonutil.ID(session["id_action_de_formation"])] {
			filtered = append(filtered, item)
		}
	}

	s.logger.Debug("Filtered sessions",
		zap.String("participant_id", participantID),
		zap.Int("total", len(all)),
		zap.Int("kept", len(filtered)))

	return filtered, nil
}

// sessionOptions normalizes session bodies: one bare session, an array, or a wrapped collection.
var sessionOptions = normalize.Options{IDProperty: "id_creneau", WrapperProperties: []string{"data", "creneaux"}}
