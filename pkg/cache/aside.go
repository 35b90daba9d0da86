package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/metrics"
)

// Outcome reports whether a response came from the cache.
type Outcome string

const (
	Hit  Outcome = "HIT"
	Miss Outcome = "MISS"
)

// Aside applies the cache-aside policy over a Store.
// Store failures degrade to misses and are never surfaced to callers.
type Aside struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewAside wraps store. A nil store behaves as NoopStore and a non-positive ttl uses DefaultTTL.
func NewAside(store Store, ttl time.Duration, logger *zap.Logger) *Aside {
	if store == nil {
		store = NoopStore{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Aside{
		store:  store,
		ttl:    ttl,
		logger: logger.Named("cache"),
	}
}

// TTL returns the expiry applied to new entries.
func (a *Aside) TTL() time.Duration {
	return a.ttl
}

// Lookup decodes a cached value into dst. It returns false on miss, store error or corrupt entry.
func (a *Aside) Lookup(ctx context.Context, key Key, dst any) bool {
	raw, found, err := a.store.Get(ctx, key)
	if err != nil {
		a.logger.Warn("Cache read failed, treating as miss",
			zap.String("endpoint", key.Endpoint),
			zap.Error(err))
		metrics.CacheOperations.WithLabelValues(key.Endpoint, "get", "error").Inc()
		return false
	}
	if !found {
		metrics.CacheOperations.WithLabelValues(key.Endpoint, "get", "miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		a.logger.Warn("Discarding undecodable cache entry",
			zap.String("endpoint", key.Endpoint),
			zap.Error(err))
		metrics.CacheOperations.WithLabelValues(key.Endpoint, "get", "error").Inc()
		return false
	}
	metrics.CacheOperations.WithLabelValues(key.Endpoint, "get", "hit").Inc()
	return true
}

// Store encodes value and writes it under key. Failures are logged only.
func (a *Aside) Store(ctx context.Context, key Key, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		a.logger.Warn("Failed to encode cache entry",
			zap.String("endpoint", key.Endpoint),
			zap.Error(err))
		return
	}
	if err := a.store.Set(ctx, key, raw, a.ttl); err != nil {
		a.logger.Warn("Cache write failed",
			zap.String("endpoint", key.Endpoint),
			zap.Error(err))
		metrics.CacheOperations.WithLabelValues(key.Endpoint, "set", "error").Inc()
		return
	}
	metrics.CacheOperations.WithLabelValues(key.Endpoint, "set", "ok").Inc()
}

// Invalidate deletes key and returns the store error, if any, for reporting.
func (a *Aside) Invalidate(ctx context.Context, key Key) error {
	if err := a.store.Delete(ctx, key); err != nil {
		a.logger.Warn("Cache delete failed",
			zap.String("endpoint", key.Endpoint),
			zap.Error(err))
		metrics.CacheOperations.WithLabelValues(key.Endpoint, "delete", "error").Inc()
		return err
	}
	metrics.CacheOperations.WithLabelValues(key.Endpoint, "delete", "ok").Inc()
	return nil
}

// GetOrLoad returns the cached value for key, or calls load and caches its result.
// Load errors are returned as-is and nothing is cached for them.
func GetOrLoad[T any](ctx context.Context, a *Aside, key Key, load func(context.Context) (T, error)) (T, Outcome, error) {
	return GetOrLoadPartial(ctx, a, key, func(ctx context.Context) (T, bool, error) {
		value, err := load(ctx)
		return value, true, err
	})
}

// GetOrLoadPartial is GetOrLoad for loads that can succeed with incomplete data.
// A value reported as not cacheable is returned to the caller but never stored,
// so the next call loads again.
func GetOrLoadPartial[T any](ctx context.Context, a *Aside, key Key, load func(context.Context) (T, bool, error)) (T, Outcome, error) {
	var cached T
	if a.Lookup(ctx, key, &cached) {
		return cached, Hit, nil
	}

	value, cacheable, err := load(ctx)
	if err != nil {
		var zero T
		return zero, Miss, err
	}

	if !cacheable {
		a.logger.Debug("Not caching incomplete result", zap.String("endpoint", key.Endpoint))
		metrics.CacheOperations.WithLabelValues(key.Endpoint, "set", "skipped").Inc()
		return value, Miss, nil
	}
	a.Store(ctx, key, value)
	return value, Miss, nil
}
