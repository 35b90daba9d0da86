// Package database opens the connections the cache backends run on.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/config"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/retry"
)

// NewRedisClient creates a redis client and waits for the server to answer PING,
// retrying with backoff until retryCfg is exhausted or ctx is done.
// A nil retryCfg uses retry.DefaultConfig.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig, retryCfg *retry.Config, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("redis host is not configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	attemptCfg := *retryCfg
	attemptCfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn("Redis not ready, retrying",
			zap.String("addr", cfg.Addr()),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	// Test connection
	if _, err := retry.DoWithResult(ctx, &attemptCfg, func(ctx context.Context) (string, error) {
		return client.Ping(ctx).Result()
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}

	return client, nil
}
