package models

import (
	"time"

	"karnex/internal/shared/constants"
)

// UsageQuotaModel holds one user's counters for one billing period.
// (user_id, period_start) is unique so increments can upsert.
type UsageQuotaModel struct {
	ID           uint      `gorm:"primarykey"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_usage_user_period"`
	PeriodStart  time.Time `gorm:"not null;uniqueIndex:idx_usage_user_period;index:idx_usage_period_start"`
	AICallsUsed  int64     `gorm:"column:ai_calls_used;not null;default:0"`
	ProjectsUsed int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (UsageQuotaModel) TableName() string {
	return constants.TableUsages
}
