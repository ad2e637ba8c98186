package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"karnex/internal/domain/admission"
	"karnex/internal/domain/quota"
	"karnex/internal/infrastructure/ratelimit"
	apperrors "karnex/internal/shared/errors"
	"karnex/internal/shared/logger"
)

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Check(ctx context.Context, key string) ratelimit.Result {
	return m.Called(ctx, key).Get(0).(ratelimit.Result)
}

func (m *mockLimiter) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockTracker struct {
	mock.Mock
}

func (m *mockTracker) Check(ctx context.Context, userID uint, resource quota.Resource) quota.Check {
	return m.Called(ctx, userID, resource).Get(0).(quota.Check)
}

func (m *mockTracker) Increment(ctx context.Context, userID uint, resource quota.Resource) error {
	return m.Called(ctx, userID, resource).Error(0)
}

type recorder struct {
	decisions []admission.Decision
	degraded  []string
}

func (r *recorder) RecordDecision(d admission.Decision) { r.decisions = append(r.decisions, d) }
func (r *recorder) RecordDegraded(gate string)          { r.degraded = append(r.degraded, gate) }

var resetAt = time.Date(2025, 3, 10, 9, 1, 0, 0, time.UTC)

func allowedResult(remaining int64) ratelimit.Result {
	return ratelimit.Result{Allowed: true, Remaining: remaining, Limit: 30, ResetAt: resetAt}
}

func TestAdmit_RateLimitDenialShortCircuits(t *testing.T) {
	limiter := new(mockLimiter)
	tracker := new(mockTracker)
	rec := &recorder{}
	c := NewController(limiter, tracker, rec, logger.NewNopLogger())

	limiter.On("Check", mock.Anything, "203.0.113.7").
		Return(ratelimit.Result{Allowed: false, Remaining: 0, Limit: 30, ResetAt: resetAt})

	d := c.Admit(context.Background(), "203.0.113.7", 42, admission.OperationAIRequest)

	assert.False(t, d.Allowed)
	assert.Equal(t, admission.ReasonRateLimited, d.Reason)
	assert.Equal(t, apperrors.CodeRateLimited, d.Code())
	assert.Equal(t, resetAt, d.ResetAt)
	tracker.AssertNotCalled(t, "Check", mock.Anything, mock.Anything, mock.Anything)
	require.Len(t, rec.decisions, 1)
	assert.False(t, rec.decisions[0].Allowed)
}

func TestAdmit_QuotaDenial(t *testing.T) {
	tests := []struct {
		name     string
		op       admission.Operation
		resource quota.Resource
		code     apperrors.Code
	}{
		{"ai request", admission.OperationAIRequest, quota.ResourceAICalls, apperrors.CodeAIQuotaExceeded},
		{"project create", admission.OperationProjectCreate, quota.ResourceProjects, apperrors.CodeProjectLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := new(mockLimiter)
			tracker := new(mockTracker)
			c := NewController(limiter, tracker, nil, logger.NewNopLogger())

			limiter.On("Check", mock.Anything, "198.51.100.1").Return(allowedResult(29))
			tracker.On("Check", mock.Anything, uint(7), tt.resource).
				Return(quota.Evaluate(5000, 5000))

			d := c.Admit(context.Background(), "198.51.100.1", 7, tt.op)
			assert.False(t, d.Allowed)
			assert.Equal(t, tt.code, d.Code())
			assert.Equal(t, int64(5000), d.Used)
			assert.Equal(t, int64(5000), d.Limit)
		})
	}
}

func TestAdmit_AllowsBothGates(t *testing.T) {
	limiter := new(mockLimiter)
	tracker := new(mockTracker)
	c := NewController(limiter, tracker, nil, logger.NewNopLogger())

	limiter.On("Check", mock.Anything, "anonymous").Return(allowedResult(12))
	tracker.On("Check", mock.Anything, uint(3), quota.ResourceAICalls).Return(quota.Evaluate(10, 5000))

	d := c.Admit(context.Background(), "anonymous", 3, admission.OperationAIRequest)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(10), d.Used)
	assert.Equal(t, int64(4990), d.Remaining)
	assert.Equal(t, int64(12), d.Window.Remaining)
	assert.False(t, d.Degraded)
}

func TestAdmit_NonBillableSkipsQuota(t *testing.T) {
	limiter := new(mockLimiter)
	tracker := new(mockTracker)
	c := NewController(limiter, tracker, nil, logger.NewNopLogger())

	limiter.On("Check", mock.Anything, "10.0.0.1").Return(allowedResult(5))

	d := c.Admit(context.Background(), "10.0.0.1", 3, admission.OperationRequest)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(5), d.Window.Remaining)
	assert.True(t, d.Unlimited())
	tracker.AssertNotCalled(t, "Check", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmit_AnonymousCallerSkipsQuota(t *testing.T) {
	limiter := new(mockLimiter)
	tracker := new(mockTracker)
	c := NewController(limiter, tracker, nil, logger.NewNopLogger())

	limiter.On("Check", mock.Anything, "10.0.0.1").Return(allowedResult(5))

	d := c.Admit(context.Background(), "10.0.0.1", 0, admission.OperationAIRequest)
	assert.True(t, d.Allowed)
	tracker.AssertNotCalled(t, "Check", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmit_DegradedGatesStillAdmit(t *testing.T) {
	limiter := new(mockLimiter)
	tracker := new(mockTracker)
	rec := &recorder{}
	c := NewController(limiter, tracker, rec, logger.NewNopLogger())

	limiter.On("Check", mock.Anything, "10.0.0.2").
		Return(ratelimit.Result{Allowed: true, Remaining: 30, Limit: 30, ResetAt: resetAt, Degraded: true})
	tracker.On("Check", mock.Anything, uint(9), quota.ResourceAICalls).Return(quota.FailOpen())

	d := c.Admit(context.Background(), "10.0.0.2", 9, admission.OperationAIRequest)
	assert.True(t, d.Allowed)
	assert.True(t, d.Degraded)
	assert.Equal(t, []string{gateRateLimit}, rec.degraded)
}

func TestCommit(t *testing.T) {
	t.Run("increments billable operations", func(t *testing.T) {
		tracker := new(mockTracker)
		c := NewController(nil, tracker, nil, logger.NewNopLogger())

		tracker.On("Increment", mock.Anything, uint(4), quota.ResourceProjects).Return(nil).Once()
		c.Commit(context.Background(), 4, admission.OperationProjectCreate)
		tracker.AssertExpectations(t)
	})

	t.Run("absorbs storage errors", func(t *testing.T) {
		tracker := new(mockTracker)
		c := NewController(nil, tracker, nil, logger.NewNopLogger())

		tracker.On("Increment", mock.Anything, uint(4), quota.ResourceAICalls).
			Return(apperrors.NewPersistenceUnavailableError("increment ai_calls", errors.New("down")))
		assert.NotPanics(t, func() {
			c.Commit(context.Background(), 4, admission.OperationAIRequest)
		})
	})

	t.Run("ignores plain requests", func(t *testing.T) {
		tracker := new(mockTracker)
		c := NewController(nil, tracker, nil, logger.NewNopLogger())

		c.Commit(context.Background(), 4, admission.OperationRequest)
		tracker.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReset(t *testing.T) {
	limiter := new(mockLimiter)
	c := NewController(limiter, nil, nil, logger.NewNopLogger())

	limiter.On("Reset", mock.Anything, "10.0.0.3").Return(nil)
	require.NoError(t, c.Reset(context.Background(), "10.0.0.3"))
	limiter.AssertExpectations(t)
}

func TestAdmitQuota_SkipsLimiter(t *testing.T) {
	limiter := new(mockLimiter)
	tracker := new(mockTracker)
	rec := &recorder{}
	c := NewController(limiter, tracker, rec, logger.NewNopLogger())

	tracker.On("Check", mock.Anything, uint(4), quota.ResourceProjects).Return(quota.Evaluate(3, 3))

	d := c.AdmitQuota(context.Background(), 4, admission.OperationProjectCreate)
	assert.False(t, d.Allowed)
	assert.Equal(t, admission.ReasonProjectLimitExceeded, d.Reason)
	assert.Equal(t, int64(3), d.Used)
	assert.Zero(t, d.Window.Limit)
	limiter.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	require.Len(t, rec.decisions, 1)
}
