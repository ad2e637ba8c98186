package quota

import (
	"errors"
	"fmt"
)

// Unlimited is the ceiling sentinel for an unbounded resource.
const Unlimited int64 = -1

var ErrMissingFreeTier = errors.New("plan table must define the free tier")

// PlanLimits are the per-billing-period ceilings of one tier.
type PlanLimits struct {
	AICalls  int64
	Projects int64
}

// LimitOverrides replaces individual tier ceilings for a single account.
// Nil fields keep the tier value.
type LimitOverrides struct {
	AICalls  *int64 `json:"ai_calls,omitempty"`
	Projects *int64 `json:"projects,omitempty"`
}

// IsEmpty reports whether no field is overridden.
func (o LimitOverrides) IsEmpty() bool {
	return o.AICalls == nil && o.Projects == nil
}

// Validate rejects ceilings below the unlimited sentinel.
func (o LimitOverrides) Validate() error {
	if o.AICalls != nil && *o.AICalls < Unlimited {
		return fmt.Errorf("ai_calls override must be >= %d", Unlimited)
	}
	if o.Projects != nil && *o.Projects < Unlimited {
		return fmt.Errorf("projects override must be >= %d", Unlimited)
	}
	return nil
}

// Apply returns l with the overridden fields replaced.
func (l PlanLimits) Apply(o *LimitOverrides) PlanLimits {
	if o == nil {
		return l
	}
	if o.AICalls != nil {
		l.AICalls = *o.AICalls
	}
	if o.Projects != nil {
		l.Projects = *o.Projects
	}
	return l
}

// PlanTable maps tiers to ceilings.
type PlanTable struct {
	limits map[PlanTier]PlanLimits
}

// NewPlanTable builds a table; the free tier is mandatory since it is the
// fallback for unknown accounts and tiers.
func NewPlanTable(limits map[PlanTier]PlanLimits) (*PlanTable, error) {
	if _, ok := limits[PlanTierFree]; !ok {
		return nil, ErrMissingFreeTier
	}
	copied := make(map[PlanTier]PlanLimits, len(limits))
	for tier, l := range limits {
		if l.AICalls < Unlimited || l.Projects < Unlimited {
			return nil, fmt.Errorf("invalid limits for tier %s", tier)
		}
		copied[tier] = l
	}
	return &PlanTable{limits: copied}, nil
}

// LimitsFor returns the ceilings of tier, falling back to the free tier.
func (t *PlanTable) LimitsFor(tier PlanTier) PlanLimits {
	if l, ok := t.limits[tier]; ok {
		return l
	}
	return t.limits[PlanTierFree]
}
