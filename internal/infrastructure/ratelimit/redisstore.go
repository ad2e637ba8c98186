package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:ip:"

// RedisStore shares windows between instances. Each key carries its own
// TTL, so expired windows disappear without a sweep.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (int64, time.Time, error) {
	redisKey := s.key(key)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to increment window %s: %w", key, err)
	}

	if count == 1 {
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("failed to set window ttl %s: %w", key, err)
		}
		return count, now.Add(window), nil
	}

	ttl, err := s.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to read window ttl %s: %w", key, err)
	}
	// A key without expiry would never reset; restore the TTL.
	if ttl < 0 {
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("failed to set window ttl %s: %w", key, err)
		}
		ttl = window
	}

	return count, now.Add(ttl), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset window %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) key(clientKey string) string {
	return redisKeyPrefix + clientKey
}
