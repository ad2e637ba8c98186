package http

import (
	projectUsecases "karnex/internal/application/project/usecases"
	quotaUsecases "karnex/internal/application/quota/usecases"
	"karnex/internal/shared/services/markdown"
)

type allUseCases struct {
	tracker         *quotaUsecases.Tracker
	updateAccountUC *quotaUsecases.UpdateAccountUseCase
	createProjectUC *projectUsecases.CreateProjectUseCase
	listProjectsUC  *projectUsecases.ListProjectsUseCase
}

func (c *Container) newUseCases(tracker *quotaUsecases.Tracker) *allUseCases {
	renderer := markdown.NewRenderer()

	return &allUseCases{
		tracker:         tracker,
		updateAccountUC: quotaUsecases.NewUpdateAccountUseCase(c.repos.accountRepo, c.log),
		createProjectUC: projectUsecases.NewCreateProjectUseCase(c.repos.projectRepo, renderer, c.log),
		listProjectsUC:  projectUsecases.NewListProjectsUseCase(c.repos.projectRepo, renderer, c.log),
	}
}
