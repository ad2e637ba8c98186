package usecases

import (
	"context"

	"karnex/internal/domain/admission"
	"karnex/internal/domain/quota"
	"karnex/internal/infrastructure/ratelimit"
	"karnex/internal/shared/logger"
)

// QuotaTracker is the usage side of admission.
type QuotaTracker interface {
	Check(ctx context.Context, userID uint, resource quota.Resource) quota.Check
	Increment(ctx context.Context, userID uint, resource quota.Resource) error
}

// DecisionRecorder observes every admission outcome.
type DecisionRecorder interface {
	RecordDecision(d admission.Decision)
	RecordDegraded(gate string)
}

type nopRecorder struct{}

func (nopRecorder) RecordDecision(admission.Decision) {}
func (nopRecorder) RecordDegraded(string)             {}

const gateRateLimit = "ratelimit"

// Controller gates protected operations: per-client rate limit first, then
// the caller's plan quota. The first denial wins and later gates are not
// consulted.
type Controller struct {
	limiter  ratelimit.RateLimiter
	tracker  QuotaTracker
	recorder DecisionRecorder
	logger   logger.Interface
}

func NewController(limiter ratelimit.RateLimiter, tracker QuotaTracker, recorder DecisionRecorder, logger logger.Interface) *Controller {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Controller{
		limiter:  limiter,
		tracker:  tracker,
		recorder: recorder,
		logger:   logger,
	}
}

// Admit decides whether op may run. A nil limiter or tracker skips that gate;
// userID 0 skips quota, which applies to authenticated callers only.
func (c *Controller) Admit(ctx context.Context, clientKey string, userID uint, op admission.Operation) admission.Decision {
	decision := c.admit(ctx, clientKey, userID, op)
	c.recorder.RecordDecision(decision)
	return decision
}

// AdmitQuota runs only the quota gate, for requests whose client window was
// already counted earlier in the chain.
func (c *Controller) AdmitQuota(ctx context.Context, userID uint, op admission.Operation) admission.Decision {
	decision := c.checkQuota(ctx, userID, admission.Allow(op))
	c.recorder.RecordDecision(decision)
	return decision
}

func (c *Controller) admit(ctx context.Context, clientKey string, userID uint, op admission.Operation) admission.Decision {
	decision := admission.Allow(op)

	if c.limiter != nil {
		res := c.limiter.Check(ctx, clientKey)
		if res.Degraded {
			c.recorder.RecordDegraded(gateRateLimit)
		}
		window := admission.Window{Limit: res.Limit, Remaining: res.Remaining, ResetAt: res.ResetAt}
		if !res.Allowed {
			denied := admission.Deny(op, admission.ReasonRateLimited)
			denied.Used = res.Limit - res.Remaining
			denied.Limit = res.Limit
			denied.ResetAt = res.ResetAt
			denied.Window = window
			return denied
		}
		decision.Window = window
		decision.Degraded = res.Degraded
	}

	return c.checkQuota(ctx, userID, decision)
}

func (c *Controller) checkQuota(ctx context.Context, userID uint, decision admission.Decision) admission.Decision {
	op := decision.Operation
	resource, billable := resourceFor(op)
	if !billable || c.tracker == nil || userID == 0 {
		return decision
	}

	check := c.tracker.Check(ctx, userID, resource)
	if !check.Allowed {
		denied := admission.Deny(op, admission.ReasonForQuota(op))
		denied.Used = check.Used
		denied.Limit = check.Limit
		denied.Window = decision.Window
		return denied
	}

	decision.Used = check.Used
	decision.Limit = check.Limit
	decision.Remaining = check.Remaining()
	decision.Degraded = decision.Degraded || check.Degraded
	return decision
}

// Commit counts a completed billable operation. Storage failures are logged
// and absorbed; the operation already happened.
func (c *Controller) Commit(ctx context.Context, userID uint, op admission.Operation) {
	resource, billable := resourceFor(op)
	if !billable || c.tracker == nil || userID == 0 {
		return
	}
	if err := c.tracker.Increment(ctx, userID, resource); err != nil {
		c.logger.Warnw("failed to record usage",
			"user_id", userID,
			"operation", op,
			"error", err,
		)
	}
}

// Reset clears a client's rate-limit window.
func (c *Controller) Reset(ctx context.Context, clientKey string) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Reset(ctx, clientKey)
}

func resourceFor(op admission.Operation) (quota.Resource, bool) {
	switch op {
	case admission.OperationAIRequest:
		return quota.ResourceAICalls, true
	case admission.OperationProjectCreate:
		return quota.ResourceProjects, true
	default:
		return "", false
	}
}
