package admin

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karnex/internal/application/quota/usecases"
	"karnex/internal/domain/quota"
	"karnex/internal/interfaces/http/handlers/testutil"
	"karnex/internal/shared/logger"
)

var testTime = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

type stubUpdateAccount struct {
	got usecases.UpdateAccountCommand
}

func (s *stubUpdateAccount) Execute(_ context.Context, cmd usecases.UpdateAccountCommand) (*quota.Account, error) {
	s.got = cmd
	tier := quota.PlanTierFree
	if cmd.PlanTier != nil {
		tier = quota.PlanTier(*cmd.PlanTier)
	}
	return quota.ReconstructAccount(cmd.UserID, tier, "", cmd.Overrides, testTime, testTime)
}

type stubResetter struct {
	keys []string
	err  error
}

func (s *stubResetter) Reset(_ context.Context, key string) error {
	s.keys = append(s.keys, key)
	return s.err
}

func TestAccountHandler_UpdateAccount(t *testing.T) {
	uc := &stubUpdateAccount{}
	h := NewAccountHandler(uc, &stubResetter{}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPut, "/api/admin/accounts/15", map[string]any{
		"plan_tier": "pro",
		"overrides": map[string]any{"projects": 50},
	})
	testutil.SetURLParam(c, "id", "15")
	h.UpdateAccount(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(15), uc.got.UserID)
	require.NotNil(t, uc.got.Overrides)
	assert.Equal(t, int64(50), *uc.got.Overrides.Projects)
	assert.Nil(t, uc.got.Overrides.AICalls)
	assert.Contains(t, w.Body.String(), `"plan_tier":"pro"`)
}

func TestAccountHandler_UpdateAccountRejectsBadInput(t *testing.T) {
	h := NewAccountHandler(&stubUpdateAccount{}, &stubResetter{}, logger.NewNopLogger())

	tests := []struct {
		name string
		id   string
		body map[string]any
	}{
		{"bad id", "abc", map[string]any{}},
		{"unknown tier", "1", map[string]any{"plan_tier": "gold"}},
		{"bad email", "1", map[string]any{"email": "nope"}},
		{"negative override", "1", map[string]any{"overrides": map[string]any{"ai_calls": -5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testutil.NewTestContext(http.MethodPut, "/api/admin/accounts/"+tt.id, tt.body)
			testutil.SetURLParam(c, "id", tt.id)
			h.UpdateAccount(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAccountHandler_ResetRateLimit(t *testing.T) {
	resetter := &stubResetter{}
	h := NewAccountHandler(&stubUpdateAccount{}, resetter, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/admin/ratelimit/203.0.113.5", nil)
	testutil.SetURLParam(c, "key", "203.0.113.5")
	h.ResetRateLimit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"203.0.113.5"}, resetter.keys)

	resetter.err = assert.AnError
	c, w = testutil.NewTestContext(http.MethodDelete, "/api/admin/ratelimit/x", nil)
	testutil.SetURLParam(c, "key", "x")
	h.ResetRateLimit(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
