// Package cache stores serialized navigation graphs and rendered diagrams.
//
// Building a tile graph and rendering it through Graphviz is the slow part
// of the CLI, so graph exports and diagrams are cached under keys derived
// from the content hash of the tile document plus every option that
// affects the output.
//
// # Backends
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: one JSON file per entry under ~/.cache/tilenav/
//   - [RedisCache]: shared cache for several machines
//
// # Keys
//
// A [Keyer] derives keys. [DefaultKeyer] hashes options into the key, and
// [ScopedKeyer] prefixes another keyer's keys for namespace isolation:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(doc), cache.ArtifactKeyOpts{
//		Graph:  cache.GraphKeyOpts{Map: "hall", Kind: "tile"},
//		Format: "svg",
//	})
//	data, hit, err := cache.Fetch(ctx, c, key, cache.KeyTypeArtifact, cache.DefaultTTL, render)
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/tilenav/pkg/observability"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Key types. They lead every key and are reported to observability hooks.
const (
	KeyTypeGraph    = "graph"
	KeyTypeArtifact = "artifact"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Fetch returns the cached value for key, or computes, stores and returns
// it. The bool reports a cache hit. A failing cache read is treated as a
// miss and a failing write is ignored; only compute errors are returned.
func Fetch(ctx context.Context, c Cache, key, keyType string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}

// NullCache is the backend behind --no-cache: every lookup misses and
// writes are dropped, so [Fetch] always computes.
type NullCache struct{}

// NewNullCache returns the --no-cache backend.
func NewNullCache() NullCache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
