package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"karnex/internal/shared/logger"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	e, err := NewEnforcer(db, logger.NewNopLogger())
	require.NoError(t, err)
	return e
}

func TestSeedDefaultPolicies(t *testing.T) {
	e := newTestEnforcer(t)
	require.NoError(t, SeedDefaultPolicies(e))
	// Seeding twice keeps a single copy of each rule.
	require.NoError(t, SeedDefaultPolicies(e))

	tests := []struct {
		role, resource, action string
		allowed                bool
	}{
		{RoleAdmin, ResourceAccount, ActionUpdate, true},
		{RoleAdmin, ResourceRateLimit, ActionReset, true},
		{RoleSupport, ResourceRateLimit, ActionReset, true},
		{RoleSupport, ResourceAccount, ActionUpdate, false},
		{"user", ResourceRateLimit, ActionReset, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+" "+tt.resource, func(t *testing.T) {
			ok, err := e.Enforce(tt.role, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, ok)
		})
	}
}

func TestEnforcer_PoliciesPersist(t *testing.T) {
	e := newTestEnforcer(t)
	require.NoError(t, e.AddPolicy("auditor", ResourceAccount, "read"))
	require.NoError(t, e.LoadPolicy())

	ok, err := e.Enforce("auditor", ResourceAccount, "read")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, e.RemovePolicy("auditor", ResourceAccount, "read"))
	require.NoError(t, e.LoadPolicy())
	ok, err = e.Enforce("auditor", ResourceAccount, "read")
	require.NoError(t, err)
	assert.False(t, ok)
}
