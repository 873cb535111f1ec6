package redis

import (
	"context"
	"time"

	"support-chat-dashboard/backend/pkg/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps go-redis for the summary cache and health checks.
// It satisfies the bulk orchestrator's SummaryCache interface.
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient() *RedisClient {
	cfg := config.Get()
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return &RedisClient{client: client}
}

// Get returns the string value for key. A missing key returns "" with a
// nil error so cache callers treat it as a miss, not a failure.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return value, err
}

func (r *RedisClient) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisClient) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Ping checks connectivity for health reporting
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool
func (r *RedisClient) Close() error {
	return r.client.Close()
}
