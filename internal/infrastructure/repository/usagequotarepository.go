package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"karnex/internal/domain/quota"
	"karnex/internal/infrastructure/persistence/mappers"
	"karnex/internal/infrastructure/persistence/models"
	"karnex/internal/shared/logger"
)

type UsageQuotaRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUsageQuotaRepository(db *gorm.DB, logger logger.Interface) quota.UsageRepository {
	return &UsageQuotaRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *UsageQuotaRepositoryImpl) GetByPeriod(ctx context.Context, userID uint, periodStart time.Time) (*quota.UsageRecord, error) {
	var model models.UsageQuotaModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND period_start = ?", userID, periodStart.UTC()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get usage", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}

	return mappers.UsageRecordToEntity(&model)
}

// Increment bumps the counter in the database, creating the period row on
// first use. Concurrent first increments converge through the unique
// (user_id, period_start) index.
func (r *UsageQuotaRepositoryImpl) Increment(ctx context.Context, userID uint, periodStart time.Time, resource quota.Resource) (int64, error) {
	column, err := usageColumn(resource)
	if err != nil {
		return 0, err
	}
	periodStart = periodStart.UTC()
	now := time.Now().UTC()
	db := r.db.WithContext(ctx)

	result := db.Model(&models.UsageQuotaModel{}).
		Where("user_id = ? AND period_start = ?", userID, periodStart).
		Updates(map[string]interface{}{
			column:       gorm.Expr(column+" + ?", 1),
			"updated_at": now,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to increment usage", "error", result.Error, "user_id", userID, "resource", resource)
		return 0, fmt.Errorf("failed to increment %s: %w", resource, result.Error)
	}

	if result.RowsAffected == 0 {
		row := &models.UsageQuotaModel{
			UserID:      userID,
			PeriodStart: periodStart,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if resource == quota.ResourceProjects {
			row.ProjectsUsed = 1
		} else {
			row.AICallsUsed = 1
		}

		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "period_start"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				column:       gorm.Expr(column+" + ?", 1),
				"updated_at": now,
			}),
		}).Create(row).Error
		if err != nil {
			r.logger.Errorw("failed to create usage record", "error", err, "user_id", userID, "resource", resource)
			return 0, fmt.Errorf("failed to create usage record: %w", err)
		}
		r.logger.Debugw("created usage record", "user_id", userID, "period_start", periodStart)
	}

	var used int64
	err = db.Model(&models.UsageQuotaModel{}).
		Select(column).
		Where("user_id = ? AND period_start = ?", userID, periodStart).
		Scan(&used).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read %s after increment: %w", resource, err)
	}

	return used, nil
}

func (r *UsageQuotaRepositoryImpl) DeleteOlderThan(ctx context.Context, periodStart time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("period_start < ?", periodStart.UTC()).
		Delete(&models.UsageQuotaModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete old usage records", "error", result.Error, "before", periodStart)
		return 0, fmt.Errorf("failed to delete old usage records: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func usageColumn(resource quota.Resource) (string, error) {
	switch resource {
	case quota.ResourceAICalls:
		return "ai_calls_used", nil
	case quota.ResourceProjects:
		return "projects_used", nil
	default:
		return "", fmt.Errorf("unknown usage resource: %s", resource)
	}
}
