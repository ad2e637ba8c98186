package models

import (
	"time"

	"gorm.io/datatypes"

	"karnex/internal/domain/quota"
	"karnex/internal/shared/constants"
)

// AccountModel is the quota view of a user. The ID is the identity
// provider's user id, not generated here.
type AccountModel struct {
	ID             uint   `gorm:"primarykey;autoIncrement:false"`
	PlanTier       string `gorm:"not null;size:20;default:free"`
	Email          string `gorm:"size:255"`
	LimitOverrides datatypes.JSONType[quota.LimitOverrides]
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (AccountModel) TableName() string {
	return constants.TableAccounts
}
