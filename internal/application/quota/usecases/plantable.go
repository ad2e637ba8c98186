package usecases

import (
	"fmt"

	"karnex/internal/domain/quota"
	"karnex/internal/shared/config"
)

// PlanTableFromConfig builds the tier table from the quota.plans section.
func PlanTableFromConfig(cfg config.QuotaConfig) (*quota.PlanTable, error) {
	limits := make(map[quota.PlanTier]quota.PlanLimits, len(cfg.Plans))
	for name, plan := range cfg.Plans {
		tier, err := quota.NewPlanTier(name)
		if err != nil {
			return nil, fmt.Errorf("quota.plans: %w", err)
		}
		limits[tier] = quota.PlanLimits{AICalls: plan.AICalls, Projects: plan.Projects}
	}
	return quota.NewPlanTable(limits)
}
