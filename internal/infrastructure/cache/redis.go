package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/proteinfinder/backend/internal/domain"
)

// Hash fields of a cached entry
const (
	fieldBlob     = "blob"
	fieldStoredAt = "stored_at"
)

// RedisCache stores blobs as Redis hashes holding the payload and its store
// time. Keys expire after the retention period.
type RedisCache struct {
	client    redis.UniversalClient
	retention time.Duration
	logger    *zap.Logger
}

// NewRedisCache connects to the Redis server at redisURL and verifies it with a ping.
func NewRedisCache(redisURL string, retention time.Duration, logger *zap.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, eris.Wrap(err, "parse redis url")
	}
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, eris.Wrapf(domain.ErrCacheUnavailable, "ping %s: %v", opts.Addr, err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Redis connected", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))

	return NewRedisCacheWithClient(client, retention, logger), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client redis.UniversalClient, retention time.Duration, logger *zap.Logger) *RedisCache {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, retention: retention, logger: logger}
}

// Get returns the blob stored under key
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := c.client.HGet(ctx, key, fieldBlob).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, eris.Wrapf(domain.ErrCacheUnavailable, "get %s: %v", key, err)
	}
	return blob, nil
}

// Set stores blob under key together with the current time
func (c *RedisCache) Set(ctx context.Context, key string, blob []byte) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldBlob, blob, fieldStoredAt, time.Now().UnixMilli())
		pipe.Expire(ctx, key, c.retention)
		return nil
	})
	if err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return eris.Wrapf(domain.ErrCacheUnavailable, "set %s: %v", key, err)
	}
	return nil
}

// IsFresh reports whether key exists and was stored within maxAge
func (c *RedisCache) IsFresh(ctx context.Context, key string, maxAge time.Duration) (bool, error) {
	raw, err := c.client.HGet(ctx, key, fieldStoredAt).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(domain.ErrCacheUnavailable, "freshness %s: %v", key, err)
	}

	storedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, nil
	}
	return time.Since(time.UnixMilli(storedAt)) <= maxAge, nil
}

// Close releases the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}
