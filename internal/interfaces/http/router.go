package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "karnex/docs"
	"karnex/internal/infrastructure/config"
	"karnex/internal/interfaces/http/middleware"
	"karnex/internal/interfaces/http/routes"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/version"
)

// Router represents the HTTP router configuration
type Router struct {
	engine    *gin.Engine
	container *Container
}

// NewRouter creates a new HTTP router with all dependencies.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	container, err := NewContainer(db, redisClient, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := container.engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, err
	}

	return &Router{
		engine:    container.engine,
		container: container,
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	c := r.container

	r.engine.Use(middleware.Recovery(c.log))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(c.log))
	r.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.ErrorHandler(c.log))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/health", r.health)
	if c.cfg.Metrics.Enabled {
		r.engine.GET(c.cfg.Metrics.Path, gin.WrapH(c.metrics.Handler()))
	}

	routes.SetupAPIRoutes(r.engine, &routes.APIRouteConfig{
		UsageHandler:        c.hdlrs.usageHandler,
		ProjectHandler:      c.hdlrs.projectHandler,
		AIProxyHandler:      c.hdlrs.aiProxyHandler,
		AuthMiddleware:      c.authMiddleware,
		AdmissionMiddleware: c.admissionMiddleware,
		AIPrefix:            aiRoutePrefix,
	})

	routes.SetupAdminRoutes(r.engine, &routes.AdminRouteConfig{
		AccountHandler:       c.hdlrs.accountHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

func (r *Router) health(ctx *gin.Context) {
	sqlDB, err := r.container.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		r.container.log.Warnw("health check: database unreachable", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Current()})
}

// Start launches background services.
func (r *Router) Start(ctx context.Context) {
	r.container.Start(ctx)
}

// GetEngine returns the gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Shutdown gracefully shuts down the router
func (r *Router) Shutdown() {
	r.container.Shutdown()
}
