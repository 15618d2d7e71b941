// Package cache stores resolved layouts so that resolving the same graph
// with the same options twice does no work.
//
// Four backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// and [MongoCache] for shared deployments of the API server, and
// [NullCache] when caching is off. [Open] picks one from a [Config].
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// DefaultTTL is how long resolved layouts are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Config selects and configures a backend.
type Config struct {
	Backend string        `toml:"backend"`
	TTL     time.Duration `toml:"ttl"`

	// Prefix scopes every key, so several deployments can share one
	// backend. See [NewScopedKeyer].
	Prefix string `toml:"prefix"`

	Dir string `toml:"dir"` // file

	RedisAddr     string `toml:"redis_addr"` // redis
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"` // mongo
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Open returns the backend named by cfg.Backend. An empty backend means
// [BackendFile] in cfg.Dir or [DefaultDir].
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return nonNil(NewFileCache(dir))
	case BackendRedis:
		return nonNil(NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
	case BackendMongo:
		return nonNil(NewMongoCache(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		}))
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// nonNil keeps a failed constructor's typed nil pointer out of the
// returned interface.
func nonNil[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultDir returns the per-user cache directory, e.g.
// ~/.cache/octomap on Linux.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "octomap"), nil
}
