package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	admissionUsecases "karnex/internal/application/admission/usecases"
	"karnex/internal/infrastructure/auth"
	"karnex/internal/infrastructure/config"
	"karnex/internal/infrastructure/metrics"
	"karnex/internal/infrastructure/permission"
	"karnex/internal/infrastructure/pubsub"
	"karnex/internal/infrastructure/ratelimit"
	"karnex/internal/infrastructure/scheduler"
	"karnex/internal/interfaces/http/middleware"
	"karnex/internal/shared/goroutine"
	"karnex/internal/shared/logger"
)

type windowResetter interface {
	Reset(ctx context.Context, clientKey string) error
}

// Container holds infrastructure components, repositories, use cases,
// handlers and background services, wired together in NewContainer.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client // nil when no shared store is configured

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	admissionMiddleware  *middleware.AdmissionMiddleware
	permissionMiddleware *middleware.PermissionMiddleware

	// Admission
	jwtSvc      *auth.JWTService
	enforcer    *permission.Enforcer
	memoryStore *ratelimit.MemoryStore // nil with the redis backend
	limiter     ratelimit.RateLimiter  // nil when rate limiting is disabled
	controller  *admissionUsecases.Controller
	resetter    windowResetter
	metrics     *metrics.PrometheusMetrics

	// Background services
	schedulerManager *scheduler.SchedulerManager
	resetBus         *pubsub.RedisResetBus
	resetBusCancel   context.CancelFunc
	resetBusMu       sync.Mutex
}

// NewContainer wires every component. redisClient may be nil unless the
// rate limit backend is redis.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	if cfg.RateLimit.Backend == "redis" && redisClient == nil {
		return nil, fmt.Errorf("ratelimit backend redis requires a redis client")
	}

	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	// Section 1: Infrastructure - metrics, repositories, permissions
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Admission - quota tracker, limiter, controller
	if err := c.initAdmission(); err != nil {
		return nil, err
	}

	// Section 3: Handlers and middlewares
	if err := c.initHandlers(); err != nil {
		return nil, err
	}

	// Section 4: Scheduler jobs
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// Start launches background work: scheduled jobs and the cross-instance
// reset subscription.
func (c *Container) Start(ctx context.Context) {
	c.schedulerManager.Start()

	if c.resetBus == nil {
		return
	}
	subCtx, cancel := context.WithCancel(ctx)
	c.resetBusMu.Lock()
	c.resetBusCancel = cancel
	c.resetBusMu.Unlock()

	broadcaster, ok := c.resetter.(interface{ ApplyRemoteReset(string) })
	if !ok {
		return
	}
	goroutine.SafeGo(c.log, "ratelimit-reset-subscriber", func() {
		if err := c.resetBus.SubscribeResets(subCtx, broadcaster.ApplyRemoteReset); err != nil && subCtx.Err() == nil {
			c.log.Errorw("rate limit reset subscription stopped", "error", err)
		}
	})
}

// Shutdown stops background work. The database is closed by the caller.
func (c *Container) Shutdown() {
	c.resetBusMu.Lock()
	if c.resetBusCancel != nil {
		c.resetBusCancel()
	}
	c.resetBusMu.Unlock()

	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
