package usecases

import (
	"context"
	"time"

	"karnex/internal/domain/project"
	"karnex/internal/shared/errors"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/services/markdown"
)

type CreateProjectCommand struct {
	UserID uint
	Name   string
	Idea   string
}

type ProjectResult struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Idea      string    `json:"idea"`
	IdeaHTML  string    `json:"idea_html"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateProjectUseCase struct {
	projects project.Repository
	renderer markdown.Renderer
	logger   logger.Interface
}

func NewCreateProjectUseCase(projects project.Repository, renderer markdown.Renderer, logger logger.Interface) *CreateProjectUseCase {
	return &CreateProjectUseCase{
		projects: projects,
		renderer: renderer,
		logger:   logger,
	}
}

// Execute stores a project. Quota is enforced and counted by the caller's
// admission guard, not here.
func (uc *CreateProjectUseCase) Execute(ctx context.Context, cmd CreateProjectCommand) (*ProjectResult, error) {
	p, err := project.NewProject(cmd.UserID, uc.renderer.StripTags(cmd.Name), cmd.Idea)
	if err != nil {
		return nil, errors.NewValidationError("invalid project", err.Error())
	}

	if err := uc.projects.Create(ctx, p); err != nil {
		uc.logger.Errorw("failed to create project", "user_id", cmd.UserID, "error", err)
		return nil, errors.NewInternalError("failed to create project")
	}

	uc.logger.Infow("project created", "project_id", p.ID(), "user_id", p.UserID())
	return toResult(p, uc.renderer, uc.logger), nil
}

func toResult(p *project.Project, renderer markdown.Renderer, log logger.Interface) *ProjectResult {
	ideaHTML, err := renderer.ToHTMLSanitized(p.Idea())
	if err != nil {
		log.Warnw("failed to render project idea", "project_id", p.ID(), "error", err)
		ideaHTML = ""
	}
	return &ProjectResult{
		ID:        p.ID(),
		Name:      p.Name(),
		Idea:      p.Idea(),
		IdeaHTML:  ideaHTML,
		CreatedAt: p.CreatedAt(),
	}
}
