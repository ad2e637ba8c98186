// Package admission holds the outcome of gating a request in front of a
// protected operation.
package admission

import (
	"time"

	"karnex/internal/shared/errors"
)

// Operation names a gated action.
type Operation string

const (
	// OperationRequest is plain rate limiting with no billable quota.
	OperationRequest       Operation = "request"
	OperationAIRequest     Operation = "ai_request"
	OperationProjectCreate Operation = "project_create"
)

// IsValid checks if the operation is known
func (o Operation) IsValid() bool {
	return o == OperationRequest || o == OperationAIRequest || o == OperationProjectCreate
}

// Billable reports whether the operation consumes plan quota.
func (o Operation) Billable() bool {
	return o == OperationAIRequest || o == OperationProjectCreate
}

func (o Operation) String() string {
	return string(o)
}

// Reason is the denial cause of a Decision. Empty when allowed.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonRateLimited          Reason = "rate_limited"
	ReasonQuotaExceeded        Reason = "quota_exceeded"
	ReasonProjectLimitExceeded Reason = "project_limit_exceeded"
)

// Code maps the reason to the machine-readable API code.
func (r Reason) Code() errors.Code {
	switch r {
	case ReasonRateLimited:
		return errors.CodeRateLimited
	case ReasonQuotaExceeded:
		return errors.CodeAIQuotaExceeded
	case ReasonProjectLimitExceeded:
		return errors.CodeProjectLimitExceeded
	default:
		return ""
	}
}

func (r Reason) String() string {
	return string(r)
}

// ReasonForQuota returns the quota denial reason of a billable operation.
func ReasonForQuota(op Operation) Reason {
	if op == OperationProjectCreate {
		return ReasonProjectLimitExceeded
	}
	return ReasonQuotaExceeded
}

// Unlimited is the Limit of a decision whose ceiling has no bound.
const Unlimited int64 = -1

// Window is the caller's rate-limit standing. Zero when no limiter ran.
type Window struct {
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// Decision is the synchronous allow/deny outcome of admission.
// For rate-limit denials Used/Limit describe the window; otherwise they
// describe the billing period quota.
type Decision struct {
	Allowed   bool
	Reason    Reason
	Operation Operation
	Used      int64
	Limit     int64
	Remaining int64
	ResetAt   time.Time
	Window    Window
	// Degraded is set when a gate could not consult its state and admitted
	// the request anyway.
	Degraded bool
}

// Allow returns an admitting decision for op.
func Allow(op Operation) Decision {
	return Decision{Allowed: true, Operation: op, Limit: Unlimited, Remaining: Unlimited}
}

// Deny returns a denial for op with the given reason.
func Deny(op Operation, reason Reason) Decision {
	return Decision{Allowed: false, Operation: op, Reason: reason}
}

// Unlimited reports whether the decision's ceiling is unbounded.
func (d Decision) Unlimited() bool {
	return d.Limit < 0
}

// Code returns the machine-readable denial code, empty when allowed.
func (d Decision) Code() errors.Code {
	if d.Allowed {
		return ""
	}
	return d.Reason.Code()
}

// RetryAfter is the wait until ResetAt, rounded up to whole seconds and
// never below one second.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait <= time.Second {
		return time.Second
	}
	if rem := wait % time.Second; rem != 0 {
		wait += time.Second - rem
	}
	return wait
}
