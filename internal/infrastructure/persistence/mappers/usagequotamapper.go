package mappers

import (
	"karnex/internal/domain/project"
	"karnex/internal/domain/quota"
	"karnex/internal/infrastructure/persistence/models"
)

func UsageRecordToEntity(model *models.UsageQuotaModel) (*quota.UsageRecord, error) {
	if model == nil {
		return nil, nil
	}
	return quota.ReconstructUsageRecord(
		model.ID,
		model.UserID,
		model.PeriodStart,
		model.AICallsUsed,
		model.ProjectsUsed,
		model.UpdatedAt,
	)
}

func ProjectToEntity(model *models.ProjectModel) *project.Project {
	return project.ReconstructProject(model.ID, model.UserID, model.Name, model.Idea, model.CreatedAt)
}

func ProjectToModel(entity *project.Project) *models.ProjectModel {
	return &models.ProjectModel{
		ID:        entity.ID(),
		UserID:    entity.UserID(),
		Name:      entity.Name(),
		Idea:      entity.Idea(),
		CreatedAt: entity.CreatedAt(),
	}
}
