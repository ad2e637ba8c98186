package usecases

import (
	"context"
	"time"

	"karnex/internal/domain/quota"
	"karnex/internal/shared/biztime"
	"karnex/internal/shared/errors"
	"karnex/internal/shared/goroutine"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/utils"
)

const (
	notifyTimeout          = 30 * time.Second
	DefaultRetentionMonths = 12
	gateQuota              = "quota"
)

// Tracker enforces per-period plan ceilings. Checks fail open: when usage
// cannot be read the request is admitted and the check is marked degraded.
// Increments are atomic in the store; two concurrent requests at limit-1
// may both pass the check, which is tolerated.
type Tracker struct {
	accounts        quota.AccountRepository
	usage           quota.UsageRepository
	plans           *quota.PlanTable
	notifier        QuotaNotifier
	metrics         UsageMetrics
	retentionMonths int
	now             func() time.Time
	logger          logger.Interface
}

type TrackerOption func(*Tracker)

// WithNotifier sends quota-reached emails through n.
func WithNotifier(n QuotaNotifier) TrackerOption {
	return func(t *Tracker) { t.notifier = n }
}

func WithMetrics(m UsageMetrics) TrackerOption {
	return func(t *Tracker) { t.metrics = m }
}

// WithRetentionMonths sets how many past periods CleanupExpiredUsage keeps.
func WithRetentionMonths(months int) TrackerOption {
	return func(t *Tracker) {
		if months > 0 {
			t.retentionMonths = months
		}
	}
}

// WithTrackerClock replaces time.Now, for period-boundary tests.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(
	accounts quota.AccountRepository,
	usage quota.UsageRepository,
	plans *quota.PlanTable,
	logger logger.Interface,
	opts ...TrackerOption,
) *Tracker {
	t := &Tracker{
		accounts:        accounts,
		usage:           usage,
		plans:           plans,
		metrics:         nopUsageMetrics{},
		retentionMonths: DefaultRetentionMonths,
		now:             time.Now,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CheckAIRequestLimit compares this period's AI calls with the ceiling.
func (t *Tracker) CheckAIRequestLimit(ctx context.Context, userID uint) quota.Check {
	return t.check(ctx, userID, quota.ResourceAICalls)
}

// CheckProjectLimit compares this period's created projects with the ceiling.
func (t *Tracker) CheckProjectLimit(ctx context.Context, userID uint) quota.Check {
	return t.check(ctx, userID, quota.ResourceProjects)
}

// Check dispatches on resource.
func (t *Tracker) Check(ctx context.Context, userID uint, resource quota.Resource) quota.Check {
	return t.check(ctx, userID, resource)
}

func (t *Tracker) check(ctx context.Context, userID uint, resource quota.Resource) quota.Check {
	account, err := t.accounts.GetByID(ctx, userID)
	if err != nil {
		return t.failOpen(userID, resource, err)
	}
	limit := t.limitsFor(account).Limit(resource)

	period := biztime.BillingPeriod(t.now())
	record, err := t.usage.GetByPeriod(ctx, userID, period.Start)
	if err != nil {
		return t.failOpen(userID, resource, err)
	}

	return quota.Evaluate(record.Used(resource), limit)
}

func (t *Tracker) failOpen(userID uint, resource quota.Resource, cause error) quota.Check {
	err := errors.NewPersistenceUnavailableError("check "+string(resource), cause)
	t.logger.Warnw("quota state unavailable, allowing request",
		"code", err.Code,
		"user_id", userID,
		"resource", resource,
		"error", cause,
	)
	t.metrics.RecordDegraded(gateQuota)
	return quota.FailOpen()
}

// IncrementAIUsage counts one AI call. Call only after the call succeeded.
func (t *Tracker) IncrementAIUsage(ctx context.Context, userID uint) error {
	return t.increment(ctx, userID, quota.ResourceAICalls)
}

// IncrementProjectUsage counts one created project.
func (t *Tracker) IncrementProjectUsage(ctx context.Context, userID uint) error {
	return t.increment(ctx, userID, quota.ResourceProjects)
}

// Increment dispatches on resource.
func (t *Tracker) Increment(ctx context.Context, userID uint, resource quota.Resource) error {
	return t.increment(ctx, userID, resource)
}

// increment returns PERSISTENCE_UNAVAILABLE errors; callers log and absorb them.
func (t *Tracker) increment(ctx context.Context, userID uint, resource quota.Resource) error {
	now := t.now()
	period := biztime.BillingPeriod(now)

	used, err := t.usage.Increment(ctx, userID, period.Start, resource)
	t.metrics.RecordIncrement(string(resource), err)
	if err != nil {
		return errors.NewPersistenceUnavailableError("increment "+string(resource), err)
	}

	if resource == quota.ResourceAICalls && t.notifier != nil {
		t.maybeNotify(ctx, userID, used, period)
	}
	return nil
}

// maybeNotify emails the owner once, on the increment that lands exactly on
// a finite ceiling.
func (t *Tracker) maybeNotify(ctx context.Context, userID uint, used int64, period biztime.Period) {
	account, err := t.accounts.GetByID(ctx, userID)
	if err != nil || account == nil || account.Email() == "" {
		return
	}
	limit := t.limitsFor(account).AICalls
	if limit < 0 || used != limit {
		return
	}

	notice := quota.QuotaReachedNotice{
		UserID:    userID,
		Resource:  quota.ResourceAICalls,
		Used:      used,
		Limit:     limit,
		PlanTier:  account.Tier(),
		PeriodEnd: period.End,
	}
	to := account.Email()

	goroutine.Detached(ctx, t.logger, "quota-reached-email", notifyTimeout, func(ctx context.Context) {
		if err := t.notifier.SendQuotaReachedEmail(ctx, to, notice); err != nil {
			t.logger.Errorw("failed to send quota reached email", "user_id", userID, "to", utils.MaskEmail(to), "error", err)
			return
		}
		t.logger.Infow("quota reached email sent", "user_id", userID, "limit", limit)
	})
}

// UsageLine is one resource of a snapshot. Limit and Remaining are -1 when unlimited.
type UsageLine struct {
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
	Unlimited bool  `json:"unlimited"`
}

// UsageSnapshot is the caller's standing in the current billing period.
type UsageSnapshot struct {
	UserID      uint      `json:"user_id"`
	PlanTier    string    `json:"plan_tier"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	AICalls     UsageLine `json:"ai_calls"`
	Projects    UsageLine `json:"projects"`
}

// Snapshot reports usage for display. Unlike checks it surfaces storage errors.
func (t *Tracker) Snapshot(ctx context.Context, userID uint) (*UsageSnapshot, error) {
	account, err := t.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewPersistenceUnavailableError("load account", err)
	}

	period := biztime.BillingPeriod(t.now())
	record, err := t.usage.GetByPeriod(ctx, userID, period.Start)
	if err != nil {
		return nil, errors.NewPersistenceUnavailableError("load usage", err)
	}

	tier := quota.PlanTierFree
	if account != nil {
		tier = account.Tier()
	}
	limits := t.limitsFor(account)

	return &UsageSnapshot{
		UserID:      userID,
		PlanTier:    tier.String(),
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		AICalls:     usageLine(quota.Evaluate(record.Used(quota.ResourceAICalls), limits.AICalls)),
		Projects:    usageLine(quota.Evaluate(record.Used(quota.ResourceProjects), limits.Projects)),
	}, nil
}

func usageLine(c quota.Check) UsageLine {
	return UsageLine{
		Used:      c.Used,
		Limit:     c.Limit,
		Remaining: c.Remaining(),
		Unlimited: c.Unlimited(),
	}
}

// CleanupExpiredUsage deletes periods older than the retention window.
func (t *Tracker) CleanupExpiredUsage(ctx context.Context) (int64, error) {
	before := biztime.PeriodStartMonthsAgo(t.now(), t.retentionMonths)
	deleted, err := t.usage.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, err
	}
	t.logger.Infow("expired usage periods deleted", "before", before, "count", deleted)
	return deleted, nil
}

// limitsFor resolves ceilings; unknown accounts get the free tier.
func (t *Tracker) limitsFor(account *quota.Account) quota.PlanLimits {
	if account == nil {
		return t.plans.LimitsFor(quota.PlanTierFree)
	}
	return account.EffectiveLimits(t.plans)
}
