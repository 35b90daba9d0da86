package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/logging"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
)

// FileService lists files shared on enrolments.
type FileService interface {
	// SharedFiles fetches the shared files of every enrolment id, all-settled.
	// PerLap keeps each raw body (the error body for failed lookups); Files flattens successes only.
	SharedFiles(ctx context.Context, lapIDs []string) (*models.LapFilesResponse, error)
	// UserFiles is SharedFiles over every enrolment of the user's identity bundle.
	// A user without enrolments gets an empty response.
	UserFiles(ctx context.Context, email string) (*models.LapFilesResponse, error)
}

type fileService struct {
	identity IdentityService
	provider Provider
	logger   *zap.Logger
}

// NewFileService creates a new FileService.
func NewFileService(identity IdentityService, provider Provider, logger *zap.Logger) FileService {
	return &fileService{
		identity: identity,
		provider: provider,
		logger:   logger.Named("files"),
	}
}

func (s *fileService) UserFiles(ctx context.Context, email string) (*models.LapFilesResponse, error) {
	bundle, _, err := s.identity.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}

	lapIDs := bundle.AllSubEntityIDs()
	if len(lapIDs) == 0 {
		return &models.LapFilesResponse{LapIDs: []string{}, PerLap: map[string]any{}, Files: []any{}}, nil
	}
	return s.SharedFiles(ctx, lapIDs)
}

type lapFilesResult struct {
	ok   bool
	body any
}

func (s *fileService) SharedFiles(ctx context.Context, lapIDs []string) (*models.LapFilesResponse, error) {
	lapIDs = uniqueNonEmpty(lapIDs)
	if len(lapIDs) == 0 {
		return nil, fmt.Errorf("%w: no valid LAP IDs provided", apperrors.ErrInvalidRequest)
	}

	results := make([]lapFilesResult, len(lapIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, lapID := range lapIDs {
		g.Go(func() error {
			body, err := s.provider.SharedFiles(gctx, lapID)
			if err != nil {
				s.logger.Warn("Shared files lookup failed",
					zap.String("lap_id", lapID),
					zap.String("error", logging.SanitizeError(err)))
				results[i] = lapFilesResult{body: failureBody(err)}
				return nil
			}
			results[i] = lapFilesResult{ok: true, body: body}
			return nil
		})
	}
	_ = g.Wait()

	resp := &models.LapFilesResponse{
		LapIDs: lapIDs,
		PerLap: make(map[string]any, len(lapIDs)),
		Files:  []any{},
	}
	for i, lapID := range lapIDs {
		resp.PerLap[lapID] = results[i].body
		if results[i].ok {
			resp.Files = append(resp.Files, fileItems(results[i].body)...)
		}
	}
	return resp, nil
}

// fileItems returns the body itself when it is an array, else its "fichiers" array.
func fileItems(body any) []any {
	switch v := body.(type) {
	case []any:
		return v
	case map[string]any:
		if files, ok := v["fichiers"].([]any); ok {
			return files
		}
	}
	return nil
}

// failureBody is what a failed lookup contributes to a per-item map: the provider's
// error body when it answered, an error message otherwise.
func failureBody(err error) any {
	var upErr *apperrors.UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Details
	}
	msg := "Unexpected error"
	if errors.Is(err, apperrors.ErrUpstreamTimeout) {
		msg = "Upstream request timed out"
	} else if errors.Is(err, apperrors.ErrUpstreamUnavailable) {
		msg = logging.SanitizeError(err)
	}
	return map[string]any{"error": msg}
}
