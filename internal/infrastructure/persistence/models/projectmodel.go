package models

import (
	"time"

	"gorm.io/gorm"

	"karnex/internal/shared/constants"
)

type ProjectModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;index:idx_project_user"`
	Name      string `gorm:"not null;size:120"`
	Idea      string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (ProjectModel) TableName() string {
	return constants.TableProjects
}

// AllModels lists the tables owned by this service, in creation order.
func AllModels() []interface{} {
	return []interface{}{
		&AccountModel{},
		&UsageQuotaModel{},
		&ProjectModel{},
	}
}
