package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"karnex/internal/infrastructure/persistence/models"
	"karnex/internal/shared/constants"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestNewManager_StrategyByEnvironment(t *testing.T) {
	assert.Equal(t, "gorm_auto_migrate", NewManager(constants.EnvDevelopment).GetStrategy().GetName())
	assert.Equal(t, "gorm_auto_migrate", NewManager("").GetStrategy().GetName())
	assert.Equal(t, "goose", NewManager(constants.EnvProduction).GetStrategy().GetName())
	assert.Equal(t, "goose", NewManager("TEST").GetStrategy().GetName())
}

func TestManager_AutoMigrate(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, NewManager(constants.EnvDevelopment).Migrate(db))

	for _, m := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	db := openSQLite(t)
	strategy := NewGooseStrategy()

	require.NoError(t, NewManagerWithStrategy(strategy).Migrate(db))

	version, err := strategy.GetVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.True(t, db.Migrator().HasTable(&models.UsageQuotaModel{}))
	assert.True(t, db.Migrator().HasIndex(&models.UsageQuotaModel{}, "idx_usage_user_period"))

	// Running again is a no-op.
	require.NoError(t, strategy.Migrate(db))

	require.NoError(t, strategy.MigrateDown(db, 1))
	assert.False(t, db.Migrator().HasTable(&models.UsageQuotaModel{}))
}
