package usecases

import (
	"context"

	"karnex/internal/domain/project"
	"karnex/internal/shared/errors"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/mapper"
	"karnex/internal/shared/services/markdown"
)

type ListProjectsUseCase struct {
	projects project.Repository
	renderer markdown.Renderer
	logger   logger.Interface
}

func NewListProjectsUseCase(projects project.Repository, renderer markdown.Renderer, logger logger.Interface) *ListProjectsUseCase {
	return &ListProjectsUseCase{
		projects: projects,
		renderer: renderer,
		logger:   logger,
	}
}

// Execute returns the user's projects, newest first.
func (uc *ListProjectsUseCase) Execute(ctx context.Context, userID uint) ([]*ProjectResult, error) {
	items, err := uc.projects.ListByUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to list projects", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to list projects")
	}

	results := mapper.MapSlicePtr(items, func(p *project.Project) *ProjectResult {
		return toResult(p, uc.renderer, uc.logger)
	})
	if results == nil {
		results = []*ProjectResult{}
	}
	return results, nil
}
