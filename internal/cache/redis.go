// Package cache provides the Redis backed overview cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/config"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// KeyPrefix namespaces every key written by the dashboard.
const KeyPrefix = "dashboard"

// RedisCache stores values in Redis behind a circuit breaker, so an unavailable
// Redis costs one fast failure per call instead of a network timeout.
type RedisCache struct {
	client  redis.Cmdable
	breaker *gobreaker.CircuitBreaker[[]byte]
	ttl     time.Duration
	timeout time.Duration
}

// NewRedisClient creates a go-redis client from the cache configuration.
func NewRedisClient(cfg config.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
}

// NewRedisCache wraps client with a circuit breaker configured from cfg.
func NewRedisCache(client redis.Cmdable, cfg config.CacheConfig) *RedisCache {
	return &RedisCache{
		client:  client,
		breaker: NewCircuitBreaker(cfg.CircuitBreaker),
		ttl:     cfg.TTL,
		timeout: cfg.Timeout,
	}
}

// NewCircuitBreaker opens after cfg.ConsecutiveFailures consecutive Redis errors and
// probes again after cfg.OpenTimeout. A cache miss is not a failure.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig) *gobreaker.CircuitBreaker[[]byte] {
	st := gobreaker.Settings{
		Name:        "dashboard-cache-cb",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return gobreaker.NewCircuitBreaker[[]byte](st)
}

// Get returns the value stored under key. A missing key reports ok=false and no error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	value, err := c.breaker.Execute(func() ([]byte, error) {
		return c.client.Get(ctx, c.GenerateKey(key)).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, c.GenerateKey(key), value, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

// GenerateKey prefixes key with the dashboard namespace.
func (c *RedisCache) GenerateKey(key string) string {
	return fmt.Sprintf("%s:%s", KeyPrefix, key)
}
