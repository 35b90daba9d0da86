package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/cache"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
)

// CacheAdminService invalidates cached responses for a user.
type CacheAdminService interface {
	// Clear deletes (endpoint, email). An empty endpoint clears DefaultClearEndpoints.
	// Per-endpoint failures are reported in the result, not returned.
	Clear(ctx context.Context, email, endpoint string) (*models.CacheClearResult, error)
}

type cacheAdminService struct {
	cache  *cache.Aside
	logger *zap.Logger
}

// NewCacheAdminService creates a new CacheAdminService.
func NewCacheAdminService(aside *cache.Aside, logger *zap.Logger) CacheAdminService {
	return &cacheAdminService{
		cache:  aside,
		logger: logger.Named("cache-admin"),
	}
}

func (s *cacheAdminService) Clear(ctx context.Context, email, endpoint string) (*models.CacheClearResult, error) {
	email = identityKey(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrInvalidRequest)
	}

	endpoints := DefaultClearEndpoints
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		endpoints = []string{endpoint}
	}

	result := &models.CacheClearResult{
		Success: true,
		Email:   email,
		Cleared: make(map[string]bool, len(endpoints)),
	}
	for _, ep := range endpoints {
		result.Cleared[ep] = s.cache.Invalidate(ctx, cache.Key{Endpoint: ep, Identity: email}) == nil
	}
	result.Message = fmt.Sprintf("Cache cleared for %d endpoint(s)", len(endpoints))

	s.logger.Info("Cleared cache",
		zap.Strings("endpoints", endpoints),
		zap.Bool("all_ok", allTrue(result.Cleared)))

	return result, nil
}

func allTrue(m map[string]bool) bool {
	for _, v := range m {
		if !v {
			return false
		}
	}
	return true
}
