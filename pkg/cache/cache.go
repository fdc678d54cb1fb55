// Package cache stores rendered log artifacts between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI (one JSON file
// per entry under the user cache directory), [RedisCache] for the HTTP
// server, and [NullCache] when caching is disabled. Keys come from a
// [Keyer], which hashes everything that influences the output: the
// borehole data, the style, the header and the output format.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes.
const (
	// TTLArtifact applies to rendered pages and documents. Artifacts are
	// addressed by content hash, so they never go stale; the TTL only
	// bounds disk and memory use.
	TTLArtifact = 7 * 24 * time.Hour
	// TTLBorehole applies to boreholes fetched from a remote store.
	TTLBorehole = time.Hour
)

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)            { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error     { return nil }
func (NullCache) Delete(context.Context, string) error                         { return nil }
func (NullCache) Close() error                                                 { return nil }

var _ Cache = NullCache{}
