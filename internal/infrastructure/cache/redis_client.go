// Package cache implements the outbound.CacheStore port against Redis
// and the process-wide single-flight registry (§4.3, §5).
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrKeyNotFound is returned by Get when the key is absent, mirroring a
// cache miss distinctly from a connection failure.
var ErrKeyNotFound = errors.New("cache: key not found")

// Config configures the Redis connection (§6.5 cache.* options).
type Config struct {
	Addr          string
	Password      string
	Database      int
	PoolSize      int
	DialTimeout   time.Duration
	LookupTimeout time.Duration
	SaveTimeout   time.Duration
	EntryTTL      time.Duration
}

func DefaultConfig() Config {
	return Config{
		Addr:          "localhost:6379",
		PoolSize:      20,
		DialTimeout:   2 * time.Second,
		LookupTimeout: 200 * time.Millisecond,
		SaveTimeout:   1 * time.Second,
		EntryTTL:      30 * 24 * time.Hour,
	}
}

// RedisClient wraps go-redis with a circuit breaker so that transient
// Redis outages degrade to "cache unavailable" rather than blocking
// the request pipeline (§7 CacheUnavailable: "non-fatal").
type RedisClient struct {
	client         redis.UniversalClient
	cfg            Config
	logger         *zap.Logger
	circuitBreaker *circuitBreaker
}

func NewRedisClient(cfg Config, logger *zap.Logger) *RedisClient {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       []string{cfg.Addr},
		Password:    cfg.Password,
		DB:          cfg.Database,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})
	return &RedisClient{
		client:         client,
		cfg:            cfg,
		logger:         logger.Named("redis-client"),
		circuitBreaker: newCircuitBreaker(5, 30*time.Second),
	}
}

func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	if !r.circuitBreaker.allowRequest() {
		return nil, fmt.Errorf("redis circuit breaker open")
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.LookupTimeout)
	defer cancel()

	result, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		r.circuitBreaker.recordSuccess()
		return nil, ErrKeyNotFound
	}
	if err != nil {
		r.circuitBreaker.recordFailure()
		return nil, err
	}
	r.circuitBreaker.recordSuccess()
	return result, nil
}

func (r *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !r.circuitBreaker.allowRequest() {
		return fmt.Errorf("redis circuit breaker open")
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.SaveTimeout)
	defer cancel()

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.circuitBreaker.recordFailure()
		return err
	}
	r.circuitBreaker.recordSuccess()
	return nil
}

func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.SaveTimeout)
	defer cancel()
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.LookupTimeout)
	defer cancel()
	n, err := r.client.Exists(ctx, key).Result()
	return n > 0, err
}

func (r *RedisClient) Count(ctx context.Context, pattern string) (int64, error) {
	var count int64
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count, iter.Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// circuitBreaker is a minimal closed/open breaker: it opens after
// maxFailures consecutive failures and resets after timeout.
type circuitBreaker struct {
	maxFailures int
	timeout     time.Duration

	mu          sync.Mutex
	failures    int
	openedAt    time.Time
	open        bool
}

func newCircuitBreaker(maxFailures int, timeout time.Duration) *circuitBreaker {
	return &circuitBreaker{maxFailures: maxFailures, timeout: timeout}
}

func (c *circuitBreaker) allowRequest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return true
	}
	if time.Since(c.openedAt) > c.timeout {
		c.open = false
		c.failures = 0
		return true
	}
	return false
}

func (c *circuitBreaker) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = 0
	c.open = false
}

func (c *circuitBreaker) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
	if c.failures >= c.maxFailures {
		c.open = true
		c.openedAt = time.Now()
	}
}
