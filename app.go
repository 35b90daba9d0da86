package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/cache"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/config"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/database"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/services"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/upstream"
)

// app holds the process-lifetime components shared by every command.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	aside    *cache.Aside
	provider *upstream.Client

	identity     services.IdentityService
	competencies services.CompetencyService
	metrics      services.MetricsService
	consultants  services.ConsultantService
	staff        services.StaffService
	files        services.FileService
	tasks        services.TaskService
	calendar     services.CalendarService
	cacheAdmin   services.CacheAdminService

	// ready probes the cache backend; nil when there is nothing to probe.
	ready func(ctx context.Context) error

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	if cfg.Upstream.APIKey == "" {
		logger.Warn("DENDREO_API_KEY is not set; provider calls will be rejected")
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.aside = cache.NewAside(store, cfg.Cache.TTL, logger)
	a.provider = upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout,
	}, logger)

	a.identity = services.NewIdentityService(a.provider, a.aside, logger)
	a.competencies = services.NewCompetencyService(a.identity, a.provider, a.aside, logger)
	a.metrics = services.NewMetricsService(a.identity, a.provider, logger)
	a.consultants = services.NewConsultantService(a.identity, a.provider, logger)
	a.staff = services.NewStaffService(a.provider, logger)
	a.files = services.NewFileService(a.identity, a.provider, logger)
	a.tasks = services.NewTaskService(a.provider, logger)
	a.calendar = services.NewCalendarService(a.provider, logger)
	a.cacheAdmin = services.NewCacheAdminService(a.aside, logger)

	return a, nil
}

// openStore builds the configured cache backend. The memory sweeper stops with ctx.
func (a *app) openStore(ctx context.Context) (cache.Store, error) {
	switch a.cfg.Cache.Backend {
	case "none":
		a.logger.Info("Response cache disabled")
		return cache.NoopStore{}, nil
	case "redis":
		client, err := database.NewRedisClient(ctx, &a.cfg.Redis, nil, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			if err := client.Close(); err != nil {
				a.logger.Error("Failed to close redis client", zap.Error(err))
			}
		})
		a.ready = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		a.logger.Info("Using redis response cache", zap.String("addr", a.cfg.Redis.Addr()))
		return cache.NewRedisStore(client, a.cfg.Redis.KeyPrefix), nil
	default:
		store := cache.NewMemoryStore(a.cfg.Cache.MaxEntries)
		if a.cfg.Cache.SweepInterval > 0 {
			store.StartCleanup(ctx, a.cfg.Cache.SweepInterval)
		}
		a.logger.Info("Using in-memory response cache", zap.Int("max_entries", a.cfg.Cache.MaxEntries))
		return store, nil
	}
}

// Close releases backing connections.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
