package permission

import "fmt"

// Resources and actions guarded on the admin API.
const (
	ResourceAccount   = "account"
	ResourceRateLimit = "ratelimit"

	ActionUpdate = "update"
	ActionReset  = "reset"
)

// Roles as carried in access tokens.
const (
	RoleAdmin   = "admin"
	RoleSupport = "support"
)

// DefaultPolicies lets support staff unblock clients while plan changes
// stay with admins. Admins inherit everything support may do.
var DefaultPolicies = [][]string{
	{RoleSupport, ResourceRateLimit, ActionReset},
	{RoleAdmin, ResourceAccount, ActionUpdate},
}

// SeedDefaultPolicies stores DefaultPolicies. Existing rows are kept, so
// operators may grant more but seeding never revokes.
func SeedDefaultPolicies(e *Enforcer) error {
	for _, p := range DefaultPolicies {
		if err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("failed to seed policy %v: %w", p, err)
		}
	}
	if err := e.AddRoleInheritance(RoleAdmin, RoleSupport); err != nil {
		return err
	}
	e.logger.Infow("default permissions seeded", "policies", len(DefaultPolicies))
	return nil
}
