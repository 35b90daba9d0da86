package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/normalize"
)

// StaffService looks up administrator (responsible staff) details.
type StaffService interface {
	// Staff returns the administrator record for id. The first normalized record is returned,
	// or the provider body unchanged when it carries no recognizable record.
	Staff(ctx context.Context, id string) (any, error)
}

type staffService struct {
	provider Provider
	logger   *zap.Logger
}

// NewStaffService creates a new StaffService.
func NewStaffService(provider Provider, logger *zap.Logger) StaffService {
	return &staffService{
		provider: provider,
		logger:   logger.Named("staff"),
	}
}

func (s *staffService) Staff(ctx context.Context, id string) (any, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: missing 'id' parameter", apperrors.ErrInvalidRequest)
	}

	body, err := s.provider.Administrator(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("administrator lookup: %w", err)
	}

	records := normalize.Records(body, normalize.Options{IDProperty: "id_administrateur"})
	if len(records) == 0 {
		s.logger.Debug("Administrator body has no record, passing through", zap.String("id", id))
		return body, nil
	}
	return records[0], nil
}
