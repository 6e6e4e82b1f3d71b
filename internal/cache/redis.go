package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pfrederiksen/calendar-aggregator/internal/logger"
)

// RedisConfig holds connection settings for the Redis backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// Redis is a Store backed by a Redis server. Values are JSON-encoded and
// written with an expiry equal to the TTL, so Redis itself ages them out.
//
// Redis failures never surface to callers: a failed read is a miss and a
// failed write is dropped, both logged as warnings.
type Redis[V any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection with a PING.
func NewRedis[V any](cfg RedisConfig, ttl time.Duration) (*Redis[V], error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &Redis[V]{client: client, prefix: cfg.KeyPrefix, ttl: ttl}, nil
}

// Get fetches and decodes the value under key.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool) {
	var value V
	if r.ttl <= 0 {
		return value, false
	}

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Redis cache read failed", logger.Fields{
				"key":   key,
				"error": err.Error(),
			})
		}
		return value, false
	}

	if err := json.Unmarshal(data, &value); err != nil {
		logger.Warn("Discarding undecodable cache entry", logger.Fields{
			"key":   key,
			"error": err.Error(),
		})
		return value, false
	}
	return value, true
}

// Set encodes value and stores it under key with the configured expiry.
func (r *Redis[V]) Set(ctx context.Context, key string, value V) {
	if r.ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Failed to encode cache entry", logger.Fields{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		logger.Warn("Redis cache write failed", logger.Fields{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Close releases the underlying connection pool.
func (r *Redis[V]) Close() error {
	return r.client.Close()
}
