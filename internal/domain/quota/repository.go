package quota

import (
	"context"
	"time"
)

// AccountRepository returns nil, nil from GetByID when the account is absent.
type AccountRepository interface {
	GetByID(ctx context.Context, id uint) (*Account, error)
	Save(ctx context.Context, account *Account) error
}

// UsageRepository persists per-period counters. Increments are atomic in the
// store and create the period row on first use.
type UsageRepository interface {
	GetByPeriod(ctx context.Context, userID uint, periodStart time.Time) (*UsageRecord, error)
	// Increment adds one to the resource counter and returns the new value.
	Increment(ctx context.Context, userID uint, periodStart time.Time, resource Resource) (int64, error)
	DeleteOlderThan(ctx context.Context, periodStart time.Time) (int64, error)
}
