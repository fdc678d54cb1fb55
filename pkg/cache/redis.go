package cache

import (
	"context"
	stderrors "errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

// RedisConfig configures a RedisCache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, e.g. "boreholelog:".
	Prefix string
}

// RedisCache stores entries in Redis with native key expiry. It is meant
// for server deployments where several instances share one cache.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	owned  bool
}

// NewRedisCache connects to cfg.Addr and checks the connection.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := RetryWithBackoff(ctx, func() error {
		return classifyRedis(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, errors.Upstream(err, "connect to redis at %s", cfg.Addr)
	}
	return &RedisCache{client: client, prefix: cfg.Prefix, owned: true}, nil
}

// NewRedisCacheFromClient wraps an existing client. Close leaves it open.
func NewRedisCacheFromClient(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Upstream(err, "redis get")
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return errors.Upstream(err, "redis set")
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return errors.Upstream(err, "redis del")
	}
	return nil
}

func (c *RedisCache) Close() error {
	if !c.owned {
		return nil
	}
	return c.client.Close()
}

func classifyRedis(err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if stderrors.As(err, &ne) || stderrors.Is(err, context.DeadlineExceeded) {
		return Retryable(err)
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
