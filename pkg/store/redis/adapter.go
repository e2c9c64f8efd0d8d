// Package redis stores collection snapshots in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/store"
)

const (
	dialTimeout   = 5 * time.Second
	healthTimeout = 2 * time.Second
	scanBatch     = 100
)

// Config holds the cache connection settings.
type Config struct {
	URL              string
	MaxConns         int
	OperationTimeout time.Duration
}

// RedisAdapter is a snapshot store on a pooled go-redis client.
type RedisAdapter struct {
	client *redis.Client
	log    logger.Logger
}

// NewRedisAdapter connects to cfg.URL and pings the server before returning.
func NewRedisAdapter(cfg Config, log logger.Logger) (*RedisAdapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.DialTimeout = dialTimeout
	if cfg.MaxConns > 0 {
		opts.PoolSize = cfg.MaxConns
	}
	if cfg.OperationTimeout > 0 {
		opts.ReadTimeout = cfg.OperationTimeout
		opts.WriteTimeout = cfg.OperationTimeout
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log = log.With("cache", "redis", "addr", opts.Addr)
	log.Info("snapshot cache connected", "pool_size", opts.PoolSize)
	return &RedisAdapter{client: client, log: log}, nil
}

// Get returns the snapshot stored at key, or an error wrapping store.ErrNotFound.
func (a *RedisAdapter) Get(ctx context.Context, key string) (string, error) {
	val, err := a.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", fmt.Errorf("%w: %s", store.ErrNotFound, key)
	case err != nil:
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

// SetWithTTL stores value at key. A zero ttl keeps it until it is deleted.
func (a *RedisAdapter) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := a.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (a *RedisAdapter) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := a.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete %d keys: %w", len(keys), err)
	}
	return nil
}

// Purge removes every key starting with prefix and returns how many were removed. Seeding uses it
// to drop snapshots that no longer match the tables.
func (a *RedisAdapter) Purge(ctx context.Context, prefix string) (int, error) {
	var (
		removed int
		batch   []string
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := a.client.Unlink(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("purge %s*: %w", prefix, err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	iter := a.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan %s*: %w", prefix, err)
	}
	if err := flush(); err != nil {
		return removed, err
	}
	a.log.Debug("snapshots purged", "prefix", prefix, "removed", removed)
	return removed, nil
}

// HealthCheck pings the server with a two second cap.
func (a *RedisAdapter) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := a.client.Ping(ctx).Err(); err != nil {
		a.log.Warn("cache health check failed", "error", err)
		return fmt.Errorf("redis health check: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (a *RedisAdapter) Close() error {
	if err := a.client.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	a.log.Info("snapshot cache closed")
	return nil
}
