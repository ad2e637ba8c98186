package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"karnex/internal/domain/quota"
	"karnex/internal/infrastructure/persistence/models"
)

type AccountMapper interface {
	ToEntity(model *models.AccountModel) (*quota.Account, error)
	ToModel(entity *quota.Account) *models.AccountModel
}

type AccountMapperImpl struct{}

func NewAccountMapper() AccountMapper {
	return &AccountMapperImpl{}
}

func (m *AccountMapperImpl) ToEntity(model *models.AccountModel) (*quota.Account, error) {
	if model == nil {
		return nil, nil
	}

	overrides := model.LimitOverrides.Data()

	entity, err := quota.ReconstructAccount(
		model.ID,
		quota.PlanTier(model.PlanTier),
		model.Email,
		&overrides,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct account entity: %w", err)
	}

	return entity, nil
}

func (m *AccountMapperImpl) ToModel(entity *quota.Account) *models.AccountModel {
	if entity == nil {
		return nil
	}

	var overrides quota.LimitOverrides
	if o := entity.Overrides(); o != nil {
		overrides = *o
	}

	return &models.AccountModel{
		ID:             entity.ID(),
		PlanTier:       entity.Tier().String(),
		Email:          entity.Email(),
		LimitOverrides: datatypes.NewJSONType(overrides),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}
}
