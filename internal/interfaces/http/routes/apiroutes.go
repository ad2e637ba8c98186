package routes

import (
	"github.com/gin-gonic/gin"

	"karnex/internal/domain/admission"
	"karnex/internal/interfaces/http/handlers"
	"karnex/internal/interfaces/http/middleware"
)

// APIRouteConfig holds dependencies for authenticated user routes.
type APIRouteConfig struct {
	UsageHandler        *handlers.UsageHandler
	ProjectHandler      *handlers.ProjectHandler
	AIProxyHandler      *handlers.AIProxyHandler
	AuthMiddleware      *middleware.AuthMiddleware
	AdmissionMiddleware *middleware.AdmissionMiddleware
	// AIPrefix is the path the AI proxy is mounted under.
	AIPrefix string
}

// SetupAPIRoutes configures user routes. The rate limit runs before auth so
// unauthenticated floods are counted too; billable routes then pass the
// caller's quota.
func SetupAPIRoutes(engine *gin.Engine, cfg *APIRouteConfig) {
	api := engine.Group("/api")
	api.Use(cfg.AdmissionMiddleware.RateLimit(), cfg.AuthMiddleware.RequireAuth())
	{
		api.GET("/usage", cfg.UsageHandler.GetUsage)

		projects := api.Group("/projects")
		{
			projects.GET("", cfg.ProjectHandler.ListProjects)
			projects.POST("", cfg.AdmissionMiddleware.Guard(admission.OperationProjectCreate), cfg.ProjectHandler.CreateProject)
		}
	}

	ai := engine.Group(cfg.AIPrefix)
	ai.Use(
		cfg.AdmissionMiddleware.RateLimit(),
		cfg.AuthMiddleware.RequireAuth(),
		cfg.AdmissionMiddleware.Guard(admission.OperationAIRequest),
	)
	{
		ai.Any("/*path", cfg.AIProxyHandler.Proxy)
	}
}
