package quota

import "fmt"

// PlanTier is the subscription tier that selects an account's ceilings.
type PlanTier string

const (
	PlanTierFree       PlanTier = "free"
	PlanTierPlus       PlanTier = "plus"
	PlanTierPro        PlanTier = "pro"
	PlanTierEnterprise PlanTier = "enterprise"
)

// IsValid checks if the plan tier is known
func (t PlanTier) IsValid() bool {
	switch t {
	case PlanTierFree, PlanTierPlus, PlanTierPro, PlanTierEnterprise:
		return true
	}
	return false
}

// String returns the string representation of the plan tier
func (t PlanTier) String() string {
	return string(t)
}

// NewPlanTier creates a PlanTier from a string
func NewPlanTier(s string) (PlanTier, error) {
	t := PlanTier(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid plan tier: %s, must be 'free', 'plus', 'pro', or 'enterprise'", s)
	}
	return t, nil
}
