package usecases

import (
	"context"

	"karnex/internal/domain/quota"
	"karnex/internal/shared/errors"
	"karnex/internal/shared/logger"
)

// UpdateAccountCommand changes an account's quota settings. Nil fields are
// left untouched; ClearOverrides drops every per-account ceiling.
type UpdateAccountCommand struct {
	UserID         uint
	PlanTier       *string
	Email          *string
	Overrides      *quota.LimitOverrides
	ClearOverrides bool
}

type UpdateAccountUseCase struct {
	accounts quota.AccountRepository
	logger   logger.Interface
}

func NewUpdateAccountUseCase(accounts quota.AccountRepository, logger logger.Interface) *UpdateAccountUseCase {
	return &UpdateAccountUseCase{
		accounts: accounts,
		logger:   logger,
	}
}

// Execute creates the account on first use, on the free tier unless the
// command names another.
func (uc *UpdateAccountUseCase) Execute(ctx context.Context, cmd UpdateAccountCommand) (*quota.Account, error) {
	if cmd.UserID == 0 {
		return nil, errors.NewValidationError("user id is required")
	}

	account, err := uc.accounts.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, errors.NewPersistenceUnavailableError("load account", err)
	}
	if account == nil {
		account, err = quota.NewAccount(cmd.UserID, quota.PlanTierFree, "")
		if err != nil {
			return nil, errors.NewValidationError("invalid account", err.Error())
		}
	}

	if cmd.PlanTier != nil {
		tier, err := quota.NewPlanTier(*cmd.PlanTier)
		if err != nil {
			return nil, errors.NewValidationError("invalid plan tier", err.Error())
		}
		if err := account.ChangeTier(tier); err != nil {
			return nil, errors.NewValidationError("invalid plan tier", err.Error())
		}
	}

	if cmd.Email != nil {
		account.SetEmail(*cmd.Email)
	}

	switch {
	case cmd.ClearOverrides:
		_ = account.SetOverrides(nil)
	case cmd.Overrides != nil:
		if err := account.SetOverrides(cmd.Overrides); err != nil {
			return nil, errors.NewValidationError("invalid limit overrides", err.Error())
		}
	}

	if err := uc.accounts.Save(ctx, account); err != nil {
		return nil, errors.NewPersistenceUnavailableError("save account", err)
	}

	uc.logger.Infow("account quota settings updated",
		"user_id", account.ID(),
		"plan_tier", account.Tier(),
		"has_overrides", account.Overrides() != nil,
	)
	return account, nil
}
