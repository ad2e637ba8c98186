package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"karnex/internal/domain/quota"
	"karnex/internal/infrastructure/persistence/mappers"
	"karnex/internal/infrastructure/persistence/models"
	"karnex/internal/shared/logger"
)

type AccountRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AccountMapper
	logger logger.Interface
}

func NewAccountRepository(db *gorm.DB, logger logger.Interface) quota.AccountRepository {
	return &AccountRepositoryImpl{
		db:     db,
		mapper: mappers.NewAccountMapper(),
		logger: logger,
	}
}

func (r *AccountRepositoryImpl) GetByID(ctx context.Context, id uint) (*quota.Account, error) {
	var model models.AccountModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get account", "error", err, "account_id", id)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Save inserts the account or overwrites tier, email and overrides.
func (r *AccountRepositoryImpl) Save(ctx context.Context, account *quota.Account) error {
	model := r.mapper.ToModel(account)

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plan_tier", "email", "limit_overrides", "updated_at"}),
	}).Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to save account", "error", result.Error, "account_id", account.ID())
		return fmt.Errorf("failed to save account: %w", result.Error)
	}

	r.logger.Infow("account saved", "account_id", account.ID(), "plan_tier", account.Tier())
	return nil
}
