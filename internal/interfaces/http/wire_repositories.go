package http

import (
	"gorm.io/gorm"

	"karnex/internal/domain/project"
	"karnex/internal/domain/quota"
	"karnex/internal/infrastructure/cache"
	"karnex/internal/infrastructure/repository"
	"karnex/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	accountRepo quota.AccountRepository
	usageRepo   quota.UsageRepository
	projectRepo project.Repository
}

// newRepositories creates the repositories. With redis available account
// lookups go through a read-through cache.
func (c *Container) newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	accountRepo := repository.NewAccountRepository(db, log)
	if c.redis != nil {
		accountRepo = cache.NewCachedAccountRepository(accountRepo, c.redis, log)
	}

	return &repositories{
		accountRepo: accountRepo,
		usageRepo:   repository.NewUsageQuotaRepository(db, log),
		projectRepo: repository.NewProjectRepository(db, log),
	}
}
