package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karnex/internal/domain/quota"
	"karnex/internal/shared/logger"
)

type countingRepo struct {
	accounts map[uint]*quota.Account
	gets     int
	err      error
}

func (r *countingRepo) GetByID(_ context.Context, id uint) (*quota.Account, error) {
	r.gets++
	if r.err != nil {
		return nil, r.err
	}
	return r.accounts[id], nil
}

func (r *countingRepo) Save(_ context.Context, a *quota.Account) error {
	r.accounts[a.ID()] = a
	return nil
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedAccountRepository_ReadThrough(t *testing.T) {
	mr, client := setupTestRedis(t)

	limit := int64(77)
	acc, err := quota.NewAccount(5, quota.PlanTierPlus, "a@example.com")
	require.NoError(t, err)
	require.NoError(t, acc.SetOverrides(&quota.LimitOverrides{AICalls: &limit}))

	repo := &countingRepo{accounts: map[uint]*quota.Account{5: acc}}
	cached := NewCachedAccountRepository(repo, client, logger.NewNopLogger())
	ctx := context.Background()

	first, err := cached.GetByID(ctx, 5)
	require.NoError(t, err)
	second, err := cached.GetByID(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.gets)
	assert.Equal(t, first.Tier(), second.Tier())
	assert.Equal(t, "a@example.com", second.Email())
	require.NotNil(t, second.Overrides())
	assert.Equal(t, int64(77), *second.Overrides().AICalls)
	assert.Nil(t, second.Overrides().Projects)

	ttl := mr.TTL(accountKeyPrefix + "5")
	assert.GreaterOrEqual(t, ttl, baseAccountTTL)
	assert.Less(t, ttl, baseAccountTTL+accountTTLJitter)
}

func TestCachedAccountRepository_NullMarker(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := &countingRepo{accounts: map[uint]*quota.Account{}}
	cached := NewCachedAccountRepository(repo, client, logger.NewNopLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		acc, err := cached.GetByID(ctx, 9)
		require.NoError(t, err)
		assert.Nil(t, acc)
	}
	assert.Equal(t, 1, repo.gets)

	mr.FastForward(nullMarkerTTL + time.Second)
	_, err := cached.GetByID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.gets)
}

func TestCachedAccountRepository_SaveInvalidates(t *testing.T) {
	_, client := setupTestRedis(t)
	acc, err := quota.NewAccount(3, quota.PlanTierFree, "")
	require.NoError(t, err)

	repo := &countingRepo{accounts: map[uint]*quota.Account{3: acc}}
	cached := NewCachedAccountRepository(repo, client, logger.NewNopLogger())
	ctx := context.Background()

	_, err = cached.GetByID(ctx, 3)
	require.NoError(t, err)

	upgraded, err := quota.NewAccount(3, quota.PlanTierPro, "")
	require.NoError(t, err)
	require.NoError(t, cached.Save(ctx, upgraded))

	got, err := cached.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, quota.PlanTierPro, got.Tier())
	assert.Equal(t, 2, repo.gets)
}

func TestCachedAccountRepository_RedisDownFallsThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	acc, err := quota.NewAccount(4, quota.PlanTierPlus, "")
	require.NoError(t, err)
	repo := &countingRepo{accounts: map[uint]*quota.Account{4: acc}}
	cached := NewCachedAccountRepository(repo, client, logger.NewNopLogger())

	mr.Close()

	got, err := cached.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, quota.PlanTierPlus, got.Tier())
}

func TestCachedAccountRepository_DatabaseErrorIsReturned(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := &countingRepo{err: errors.New("db down")}
	cached := NewCachedAccountRepository(repo, client, logger.NewNopLogger())

	_, err := cached.GetByID(context.Background(), 1)
	assert.Error(t, err)
}

func TestCachedAccountRepository_CorruptEntryFallsThrough(t *testing.T) {
	mr, client := setupTestRedis(t)

	limit := int64(40)
	acc, err := quota.NewAccount(6, quota.PlanTierFree, "c@example.com")
	require.NoError(t, err)
	require.NoError(t, acc.SetOverrides(&quota.LimitOverrides{AICalls: &limit}))

	repo := &countingRepo{accounts: map[uint]*quota.Account{6: acc}}
	cached := NewCachedAccountRepository(repo, client, logger.NewNopLogger())
	ctx := context.Background()

	_, err = cached.GetByID(ctx, 6)
	require.NoError(t, err)
	mr.HSet(accountKeyPrefix+"6", fieldAICalls, "not-a-number")

	got, err := cached.GetByID(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.gets)
	require.NotNil(t, got.Overrides())
	assert.Equal(t, int64(40), *got.Overrides().AICalls)

	// The bad entry was replaced by the database copy.
	assert.Equal(t, "40", mr.HGet(accountKeyPrefix+"6", fieldAICalls))
}
