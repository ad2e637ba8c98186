package routes

import (
	"github.com/gin-gonic/gin"

	"karnex/internal/infrastructure/permission"
	adminHandlers "karnex/internal/interfaces/http/handlers/admin"
	"karnex/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin-only routes.
type AdminRouteConfig struct {
	AccountHandler       *adminHandlers.AccountHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures operator routes. Each route is authorized by
// the caller's role policies.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	{
		admin.PUT("/accounts/:id",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceAccount, permission.ActionUpdate),
			cfg.AccountHandler.UpdateAccount,
		)
		admin.DELETE("/ratelimit/:key",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceRateLimit, permission.ActionReset),
			cfg.AccountHandler.ResetRateLimit,
		)
	}
}
