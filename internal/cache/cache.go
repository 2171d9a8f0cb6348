// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores raw provider responses keyed by a provider-scoped
// string (for example "crossref:doi:10.1/x"). Entries never expire; the
// cache lives across runs and is shared by every source client.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// Cache is a persistent key/value store for JSON payloads. Implementations
// are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Close() error
}

// Maintainer is implemented by caches that can report their size and be
// emptied.
type Maintainer interface {
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// GetJSON decodes a cached payload into v. It reports false when the key is
// absent or the payload cannot be decoded.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache value for %s: %w", key, err)
	}
	return c.Set(ctx, key, data)
}

// DefaultDir returns ~/.cache/bibcheck, falling back to .bibcheck-cache in
// the working directory when the home directory is unknown.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "bibcheck")
	}
	return ".bibcheck-cache"
}

// Open builds the cache selected by cfg.
func Open(cfg types.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case types.CacheMemory:
		return NewMemory(), nil
	case types.CacheBadger:
		path := cfg.Path
		if path == "" {
			path = filepath.Join(DefaultDir(), "badger")
		}
		return NewBadger(path)
	case types.CacheSQLite, "":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(DefaultDir(), "cache.sqlite")
		}
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
