package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"karnex/internal/application/quota/usecases"
	"karnex/internal/domain/quota"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/utils"
)

type updateAccountUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateAccountCommand) (*quota.Account, error)
}

type windowResetter interface {
	Reset(ctx context.Context, clientKey string) error
}

type AccountHandler struct {
	updateAccountUC updateAccountUseCase
	resetter        windowResetter
	logger          logger.Interface
}

func NewAccountHandler(updateAccountUC updateAccountUseCase, resetter windowResetter, logger logger.Interface) *AccountHandler {
	return &AccountHandler{
		updateAccountUC: updateAccountUC,
		resetter:        resetter,
		logger:          logger,
	}
}

type OverridesRequest struct {
	AICalls  *int64 `json:"ai_calls" binding:"omitempty,min=-1"`
	Projects *int64 `json:"projects" binding:"omitempty,min=-1"`
}

type UpdateAccountRequest struct {
	PlanTier       *string           `json:"plan_tier" binding:"omitempty,oneof=free plus pro enterprise"`
	Email          *string           `json:"email" binding:"omitempty,email"`
	Overrides      *OverridesRequest `json:"overrides"`
	ClearOverrides bool              `json:"clear_overrides"`
}

type AccountResponse struct {
	UserID    uint                  `json:"user_id"`
	PlanTier  string                `json:"plan_tier"`
	Email     string                `json:"email,omitempty"`
	Overrides *quota.LimitOverrides `json:"overrides,omitempty"`
}

// UpdateAccount godoc
// @Summary Update account plan
// @Description Change the plan tier, notification email or per-account limit overrides
// @Security Bearer
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateAccountRequest true "Account changes"
// @Success 200 {object} utils.APIResponse{data=AccountResponse}
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 403 {object} utils.APIResponse "Insufficient permissions"
// @Router /admin/accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid account id")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid update account request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := usecases.UpdateAccountCommand{
		UserID:         uint(id),
		PlanTier:       req.PlanTier,
		Email:          req.Email,
		ClearOverrides: req.ClearOverrides,
	}
	if req.Overrides != nil {
		cmd.Overrides = &quota.LimitOverrides{
			AICalls:  req.Overrides.AICalls,
			Projects: req.Overrides.Projects,
		}
	}

	account, err := h.updateAccountUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Account updated successfully", AccountResponse{
		UserID:    account.ID(),
		PlanTier:  account.Tier().String(),
		Email:     account.Email(),
		Overrides: account.Overrides(),
	})
}

// ResetRateLimit godoc
// @Summary Reset a client's rate limit window
// @Security Bearer
// @Tags admin
// @Produce json
// @Param key path string true "Client key (IP address or anonymous)"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse "Insufficient permissions"
// @Failure 503 {object} utils.APIResponse "Rate limit store unavailable"
// @Router /admin/ratelimit/{key} [delete]
func (h *AccountHandler) ResetRateLimit(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "client key is required")
		return
	}

	if err := h.resetter.Reset(c.Request.Context(), key); err != nil {
		h.logger.Errorw("failed to reset rate limit window", "client_key", key, "error", err)
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "rate limit store unavailable")
		return
	}

	h.logger.Infow("rate limit window reset", "client_key", key)
	utils.SuccessResponse(c, http.StatusOK, "Rate limit window reset", nil)
}
