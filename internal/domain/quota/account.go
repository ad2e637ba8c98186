package quota

import (
	"errors"
	"strings"
	"time"
)

// Account is the quota-relevant view of a user: its tier, contact email
// and optional per-account ceilings.
type Account struct {
	id        uint
	tier      PlanTier
	email     string
	overrides *LimitOverrides
	createdAt time.Time
	updatedAt time.Time
}

func NewAccount(id uint, tier PlanTier, email string) (*Account, error) {
	if id == 0 {
		return nil, errors.New("account ID cannot be zero")
	}
	if !tier.IsValid() {
		return nil, errors.New("invalid plan tier")
	}

	now := time.Now().UTC()
	return &Account{
		id:        id,
		tier:      tier,
		email:     strings.TrimSpace(email),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructAccount rebuilds an account from persistence. Unknown tiers
// stored by older releases degrade to free.
func ReconstructAccount(id uint, tier PlanTier, email string, overrides *LimitOverrides, createdAt, updatedAt time.Time) (*Account, error) {
	if id == 0 {
		return nil, errors.New("account ID cannot be zero")
	}
	if !tier.IsValid() {
		tier = PlanTierFree
	}
	if overrides != nil && overrides.IsEmpty() {
		overrides = nil
	}

	return &Account{
		id:        id,
		tier:      tier,
		email:     email,
		overrides: overrides,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (a *Account) ID() uint                   { return a.id }
func (a *Account) Tier() PlanTier             { return a.tier }
func (a *Account) Email() string              { return a.email }
func (a *Account) Overrides() *LimitOverrides { return a.overrides }
func (a *Account) CreatedAt() time.Time       { return a.createdAt }
func (a *Account) UpdatedAt() time.Time       { return a.updatedAt }

func (a *Account) ChangeTier(tier PlanTier) error {
	if !tier.IsValid() {
		return errors.New("invalid plan tier")
	}
	a.tier = tier
	a.updatedAt = time.Now().UTC()
	return nil
}

func (a *Account) SetEmail(email string) {
	a.email = strings.TrimSpace(email)
	a.updatedAt = time.Now().UTC()
}

// SetOverrides replaces the per-account ceilings. Nil or empty clears them.
func (a *Account) SetOverrides(o *LimitOverrides) error {
	if o != nil {
		if err := o.Validate(); err != nil {
			return err
		}
		if o.IsEmpty() {
			o = nil
		}
	}
	a.overrides = o
	a.updatedAt = time.Now().UTC()
	return nil
}

// EffectiveLimits resolves the account's ceilings against the tier table.
func (a *Account) EffectiveLimits(table *PlanTable) PlanLimits {
	return table.LimitsFor(a.tier).Apply(a.overrides)
}
