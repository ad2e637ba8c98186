package http

import (
	"karnex/internal/interfaces/http/handlers"
	adminHandlers "karnex/internal/interfaces/http/handlers/admin"
	"karnex/internal/interfaces/http/middleware"
)

const aiRoutePrefix = "/api/ai"

type allHandlers struct {
	usageHandler   *handlers.UsageHandler
	projectHandler *handlers.ProjectHandler
	aiProxyHandler *handlers.AIProxyHandler
	accountHandler *adminHandlers.AccountHandler
}

func (c *Container) initHandlers() error {
	aiProxy, err := handlers.NewAIProxyHandler(c.cfg.AI.UpstreamURL, aiRoutePrefix, c.cfg.AI.Timeout, c.log.Named("ai"))
	if err != nil {
		return err
	}

	c.hdlrs = &allHandlers{
		usageHandler:   handlers.NewUsageHandler(c.ucs.tracker, c.log),
		projectHandler: handlers.NewProjectHandler(c.ucs.createProjectUC, c.ucs.listProjectsUC, c.log),
		aiProxyHandler: aiProxy,
		accountHandler: adminHandlers.NewAccountHandler(c.ucs.updateAccountUC, c.resetter, c.log),
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
	var admissionOpts []middleware.AdmissionOption
	if len(c.cfg.Server.TrustedProxies) > 0 {
		admissionOpts = append(admissionOpts, middleware.WithTrustedProxyClientIP())
	}
	c.admissionMiddleware = middleware.NewAdmissionMiddleware(c.controller, c.log, admissionOpts...)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)
	return nil
}
