package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karnex/internal/shared/logger"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestRedisStore_ConcreteScenario(t *testing.T) {
	mr, client := setupTestRedis(t)
	clock := newFakeClock()
	limiter := NewFixedWindowLimiter(NewRedisStore(client), 30, 60*time.Second, logger.NewNopLogger(), WithClock(clock.Now))
	ctx := context.Background()

	var last Result
	for i := 1; i <= 30; i++ {
		last = limiter.Check(ctx, "1.2.3.4")
		require.True(t, last.Allowed, "request %d", i)
		assert.Equal(t, int64(30-i), last.Remaining)
	}

	denied := limiter.Check(ctx, "1.2.3.4")
	assert.False(t, denied.Allowed)
	assert.Equal(t, int64(0), denied.Remaining)

	mr.FastForward(61 * time.Second)
	clock.Advance(61 * time.Second)

	res := limiter.Check(ctx, "1.2.3.4")
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(29), res.Remaining)
	assert.Equal(t, "1", mustGet(t, mr, "ratelimit:ip:1.2.3.4"))
}

func TestRedisStore_KeysAreIsolated(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewFixedWindowLimiter(NewRedisStore(client), 2, time.Minute, logger.NewNopLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		limiter.Check(ctx, "10.0.0.1")
	}
	assert.False(t, limiter.Check(ctx, "10.0.0.1").Allowed)
	assert.True(t, limiter.Check(ctx, "10.0.0.2").Allowed)
}

func TestRedisStore_ResetAtFollowsTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	_, first, err := store.Hit(ctx, "k", now, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), first)

	mr.FastForward(20 * time.Second)
	count, resetAt, err := store.Hit(ctx, "k", now.Add(20*time.Second), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, first, resetAt)
}

func TestRedisStore_RestoresMissingTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, mr.Set("ratelimit:ip:k", "5"))

	count, _, err := store.Hit(ctx, "k", time.Now(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:ip:k"))
}

func TestRedisStore_Reset(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	_, _, err := store.Hit(ctx, "k", time.Now(), time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "k"))
	assert.False(t, mr.Exists("ratelimit:ip:k"))
}

func TestRedisStore_UnavailableFailsOpen(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewFixedWindowLimiter(NewRedisStore(client), 1, time.Minute, logger.NewNopLogger())
	mr.Close()

	for i := 0; i < 3; i++ {
		res := limiter.Check(context.Background(), "k")
		assert.True(t, res.Allowed)
		assert.True(t, res.Degraded)
	}
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
