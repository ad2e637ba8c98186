package cache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"karnex/internal/domain/quota"
	"karnex/internal/shared/logger"
)

const (
	accountKeyPrefix = "account:quota:"
	baseAccountTTL   = 10 * time.Minute
	accountTTLJitter = 5 * time.Minute // TTL range: 10-15 min (anti-stampede)
	nullMarkerTTL    = 2 * time.Minute
	fieldTier        = "tier"
	fieldEmail       = "email"
	fieldAICalls     = "ai_calls"
	fieldProjects    = "projects"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
	fieldNullMarker  = "_null"
)

// CachedAccountRepository is a read-through Redis cache in front of the
// account table. Cache faults are logged and fall through to the database.
type CachedAccountRepository struct {
	next   quota.AccountRepository
	client *redis.Client
	logger logger.Interface
}

func NewCachedAccountRepository(next quota.AccountRepository, client *redis.Client, logger logger.Interface) *CachedAccountRepository {
	return &CachedAccountRepository{
		next:   next,
		client: client,
		logger: logger,
	}
}

func (r *CachedAccountRepository) key(id uint) string {
	return fmt.Sprintf("%s%d", accountKeyPrefix, id)
}

func (r *CachedAccountRepository) GetByID(ctx context.Context, id uint) (*quota.Account, error) {
	cached, hit, err := r.get(ctx, id)
	if err != nil {
		r.logger.Warnw("account cache read failed", "user_id", id, "error", err)
	} else if hit {
		return cached, nil
	}

	account, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.set(ctx, id, account); err != nil {
		r.logger.Warnw("account cache write failed", "user_id", id, "error", err)
	}
	return account, nil
}

// Save writes through and drops the cached entry.
func (r *CachedAccountRepository) Save(ctx context.Context, account *quota.Account) error {
	if err := r.next.Save(ctx, account); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.key(account.ID())).Err(); err != nil {
		r.logger.Warnw("account cache invalidation failed", "user_id", account.ID(), "error", err)
	}
	return nil
}

// get returns hit=true with a nil account for a cached not-found marker.
func (r *CachedAccountRepository) get(ctx context.Context, id uint) (*quota.Account, bool, error) {
	result, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get account from cache: %w", err)
	}
	if len(result) == 0 {
		return nil, false, nil
	}
	if result[fieldNullMarker] == "1" {
		return nil, true, nil
	}

	var overrides quota.LimitOverrides
	for field, dst := range map[string]**int64{fieldAICalls: &overrides.AICalls, fieldProjects: &overrides.Projects} {
		if _, ok := result[field]; !ok {
			continue
		}
		n, err := parseIntField(result, field)
		if err != nil {
			return nil, false, err
		}
		*dst = &n
	}
	createdAt, err := parseIntField(result, fieldCreatedAt)
	if err != nil {
		return nil, false, err
	}
	updatedAt, err := parseIntField(result, fieldUpdatedAt)
	if err != nil {
		return nil, false, err
	}

	account, err := quota.ReconstructAccount(
		id,
		quota.PlanTier(result[fieldTier]),
		result[fieldEmail],
		&overrides,
		time.Unix(createdAt, 0).UTC(),
		time.Unix(updatedAt, 0).UTC(),
	)
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}

func parseIntField(fields map[string]string, name string) (int64, error) {
	n, err := strconv.ParseInt(fields[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt account cache field %s: %w", name, err)
	}
	return n, nil
}

func (r *CachedAccountRepository) set(ctx context.Context, id uint, account *quota.Account) error {
	key := r.key(id)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)

	if account == nil {
		pipe.HSet(ctx, key, fieldNullMarker, "1")
		pipe.Expire(ctx, key, nullMarkerTTL)
		_, err := pipe.Exec(ctx)
		return err
	}

	fields := map[string]interface{}{
		fieldTier:      account.Tier().String(),
		fieldEmail:     account.Email(),
		fieldCreatedAt: account.CreatedAt().Unix(),
		fieldUpdatedAt: account.UpdatedAt().Unix(),
	}
	if o := account.Overrides(); o != nil {
		if o.AICalls != nil {
			fields[fieldAICalls] = *o.AICalls
		}
		if o.Projects != nil {
			fields[fieldProjects] = *o.Projects
		}
	}

	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, baseAccountTTL+rand.N(accountTTLJitter))
	_, err := pipe.Exec(ctx)
	return err
}
