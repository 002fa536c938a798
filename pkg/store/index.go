package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/circlepack/pkg/cache"
	"github.com/matzehuels/circlepack/pkg/scene"
)

// DefaultIndexTTL bounds how long a parameter binding stays valid. Scenes
// themselves are durable; only the shortcut expires.
const DefaultIndexTTL = 7 * 24 * time.Hour

// IndexConfig configures the Redis-backed scene index.
type IndexConfig struct {
	// Addr is the Redis host:port.
	Addr string
	// Password is optional.
	Password string
	// DB selects the Redis logical database.
	DB int
	// TTL defaults to DefaultIndexTTL.
	TTL time.Duration
}

// Index is a fast TTL-based lookup from pack-parameter hash to scene ID.
// Packing runs are deterministic given their parameters, so two identical
// requests can share one stored scene: look up the parameters first, and
// only pack (and Bind the result) on a miss.
type Index struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIndex connects to Redis and verifies the connection with a ping.
func NewIndex(ctx context.Context, cfg IndexConfig) (*Index, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultIndexTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, Retryable(fmt.Errorf("ping redis: %w", err))
	}

	return &Index{client: client, ttl: cfg.TTL}, nil
}

// Lookup returns the scene ID bound to params, or ErrNotFound.
func (ix *Index) Lookup(ctx context.Context, params scene.Params) (string, error) {
	id, err := ix.client.Get(ctx, indexKey(params)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", Retryable(fmt.Errorf("index lookup: %w", err))
	}
	return id, nil
}

// Bind associates params with a scene ID for the index TTL.
func (ix *Index) Bind(ctx context.Context, params scene.Params, sceneID string) error {
	if err := ix.client.Set(ctx, indexKey(params), sceneID, ix.ttl).Err(); err != nil {
		return Retryable(fmt.Errorf("index bind: %w", err))
	}
	return nil
}

// Close releases the Redis connection.
func (ix *Index) Close() error {
	return ix.client.Close()
}

// indexKey hashes the full parameter set so any change in inputs maps to a
// different entry.
func indexKey(params scene.Params) string {
	data, _ := json.Marshal(params)
	return "scene:" + cache.Hash(data)
}
