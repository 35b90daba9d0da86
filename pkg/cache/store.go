// Package cache provides the short-lived key-value cache that sits in front of the provider.
//
// A Store is the injected capability (in-memory, redis or no-op). Aside layers the cache-aside
// policy on top: reads and writes never fail the caller, they are logged and counted instead.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the expiry window of identity and evaluation entries.
const DefaultTTL = 5 * time.Minute

// Key identifies a cache entry by logical endpoint name and identity (usually an email).
type Key struct {
	Endpoint string
	Identity string
}

// String renders the key as "endpoint:identity".
func (k Key) String() string {
	return k.Endpoint + ":" + k.Identity
}

// Store is a TTL-bounded key-value store.
// Get reports found=false for absent and expired entries alike.
type Store interface {
	Get(ctx context.Context, key Key) (value []byte, found bool, err error)
	Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key Key) error
}

// NoopStore never stores anything; every read is a miss.
type NoopStore struct{}

func (NoopStore) Get(context.Context, Key) ([]byte, bool, error)        { return nil, false, nil }
func (NoopStore) Set(context.Context, Key, []byte, time.Duration) error { return nil }
func (NoopStore) Delete(context.Context, Key) error                     { return nil }

var _ Store = NoopStore{}
