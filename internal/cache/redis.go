package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pressfolio/internal/logger"
)

// BodyCache holds raw feed bodies for a short window so overlapping scrapers
// and manual run triggers do not re-fetch the same feed URL.
type BodyCache interface {
	Get(ctx context.Context, url string) ([]byte, bool)
	Set(ctx context.Context, url string, body []byte)
	Close() error
}

type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(redisURL, prefix string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, prefix: prefix, ttl: ttl}, nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Get(ctx context.Context, url string) ([]byte, bool) {
	body, err := r.client.Get(ctx, r.key(url)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		// A broken cache only costs a re-fetch.
		logger.Get().Warn().Err(err).Str("url", url).Msg("Feed cache read failed")
		return nil, false
	}
	return body, true
}

func (r *RedisCache) Set(ctx context.Context, url string, body []byte) {
	if err := r.client.Set(ctx, r.key(url), body, r.ttl).Err(); err != nil {
		logger.Get().Warn().Err(err).Str("url", url).Msg("Feed cache write failed")
	}
}

func (r *RedisCache) key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return r.prefix + hex.EncodeToString(sum[:])
}
