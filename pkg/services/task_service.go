package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/normalize"
)

// TaskService reads a participant's pending tasks.
type TaskService interface {
	Tasks(ctx context.Context, participantID string) (*models.TasksResponse, error)
}

type taskService struct {
	provider Provider
	logger   *zap.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(provider Provider, logger *zap.Logger) TaskService {
	return &taskService{
		provider: provider,
		logger:   logger.Named("tasks"),
	}
}

func (s *taskService) Tasks(ctx context.Context, participantID string) (*models.TasksResponse, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return nil, fmt.Errorf("%w: missing 'participantId' parameter", apperrors.ErrInvalidRequest)
	}

	body, err := s.provider.Tasks(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("task lookup: %w", err)
	}

	resp := &models.TasksResponse{
		ParticipantID: participantID,
		Tasks:         []any{},
		Raw:           body,
	}
	resp.Tasks = normalize.ToArray(body, normalize.Options{IDProperty: "id_tache", WrapperProperties: []string{"taches", "data"}})
	if obj, ok := jsonutil.Object(body); ok {
		if counts, ok := jsonutil.Object(obj["counts"]); ok {
			resp.PendingSignatures = countValue(counts["esignature"])
		}
	}

	s.logger.Debug("Fetched tasks",
		zap.String("participant_id", participantID),
		zap.Int("pending_esignatures", resp.PendingSignatures),
		zap.Int("tasks", len(resp.Tasks)))

	return resp, nil
}

// countValue reads a non-negative integer from a JSON number or numeric string.
func countValue(v any) int {
	var n int
	switch t := v.(type) {
	case float64:
		n = int(t)
	case string:
		n, _ = strconv.Atoi(strings.TrimSpace(t))
	}
	if n < 0 {
		return 0
	}
	return n
}
