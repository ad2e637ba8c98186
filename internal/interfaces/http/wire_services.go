package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	admissionUsecases "karnex/internal/application/admission/usecases"
	quotaUsecases "karnex/internal/application/quota/usecases"
	"karnex/internal/infrastructure/auth"
	"karnex/internal/infrastructure/email"
	"karnex/internal/infrastructure/metrics"
	"karnex/internal/infrastructure/permission"
	"karnex/internal/infrastructure/pubsub"
	"karnex/internal/infrastructure/ratelimit"
	"karnex/internal/infrastructure/scheduler"
	"karnex/internal/interfaces/adapters"
	sharedConfig "karnex/internal/shared/config"
)

// NewRedisClient creates and pings a Redis client.
func NewRedisClient(ctx context.Context, cfg sharedConfig.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.GetAddr(), err)
	}
	return client, nil
}

func (c *Container) initInfrastructure() error {
	c.metrics = metrics.NewPrometheusMetrics()
	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret)
	c.repos = c.newRepositories(c.db, c.log)

	enforcer, err := permission.NewEnforcer(c.db, c.log.Named("permission"))
	if err != nil {
		return err
	}
	if err := permission.SeedDefaultPolicies(enforcer); err != nil {
		return err
	}
	c.enforcer = enforcer
	return nil
}

func (c *Container) initAdmission() error {
	plans, err := quotaUsecases.PlanTableFromConfig(c.cfg.Quota)
	if err != nil {
		return fmt.Errorf("invalid plan table: %w", err)
	}

	var notifier quotaUsecases.QuotaNotifier = email.NewNoopEmailService(c.log.Named("email"))
	if c.cfg.Email.Enabled {
		notifier = email.NewSMTPEmailService(email.SMTPConfigFrom(c.cfg.Email))
	}

	tracker := quotaUsecases.NewTracker(
		c.repos.accountRepo,
		c.repos.usageRepo,
		plans,
		c.log.Named("quota"),
		quotaUsecases.WithNotifier(notifier),
		quotaUsecases.WithMetrics(c.metrics),
		quotaUsecases.WithRetentionMonths(c.cfg.Quota.RetentionMonths),
	)

	if c.cfg.RateLimit.Enabled {
		var store ratelimit.Store
		if c.cfg.RateLimit.Backend == "redis" {
			store = ratelimit.NewRedisStore(c.redis)
		} else {
			c.memoryStore = ratelimit.NewMemoryStore(c.cfg.RateLimit.MaxEntries)
			store = c.memoryStore
		}
		c.limiter = ratelimit.NewFixedWindowLimiter(
			store,
			c.cfg.RateLimit.Requests,
			c.cfg.RateLimit.Window,
			c.log.Named("ratelimit"),
		)
	}

	c.controller = admissionUsecases.NewController(c.limiter, tracker, c.metrics, c.log.Named("admission"))
	c.resetter = c.controller

	// Per-instance windows need resets relayed to the other instances.
	if c.memoryStore != nil && c.redis != nil {
		c.resetBus = pubsub.NewRedisResetBus(c.redis, c.log.Named("pubsub"))
		c.resetter = adapters.NewBroadcastResetter(c.controller, c.resetBus, c.log)
	}

	c.ucs = c.newUseCases(tracker)
	return nil
}

func (c *Container) initScheduler() error {
	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return err
	}

	if c.memoryStore != nil {
		if err := manager.RegisterRateLimitSweepJob(c.memoryStore, c.cfg.RateLimit.SweepInterval); err != nil {
			return err
		}
	}
	if err := manager.RegisterUsageRetentionJob(c.ucs.tracker); err != nil {
		return err
	}

	c.schedulerManager = manager
	return nil
}
