package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"karnex/internal/domain/project"
	"karnex/internal/infrastructure/persistence/mappers"
	"karnex/internal/infrastructure/persistence/models"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/mapper"
)

type ProjectRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProjectRepository(db *gorm.DB, logger logger.Interface) project.Repository {
	return &ProjectRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, p *project.Project) error {
	model := mappers.ProjectToModel(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create project", "error", err, "user_id", p.UserID())
		return fmt.Errorf("failed to create project: %w", err)
	}
	return p.SetID(model.ID)
}

func (r *ProjectRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*project.Project, error) {
	var rows []models.ProjectModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to list projects", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return mapper.MapSlice(rows, func(m models.ProjectModel) *project.Project {
		return mappers.ProjectToEntity(&m)
	}), nil
}
