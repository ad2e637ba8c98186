package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"karnex/internal/application/quota/usecases"
	"karnex/internal/interfaces/http/middleware"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/utils"
)

type usageSnapshotter interface {
	Snapshot(ctx context.Context, userID uint) (*usecases.UsageSnapshot, error)
}

type UsageHandler struct {
	tracker usageSnapshotter
	logger  logger.Interface
}

func NewUsageHandler(tracker usageSnapshotter, logger logger.Interface) *UsageHandler {
	return &UsageHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// GetUsage godoc
// @Summary Current period usage
// @Description Usage and plan limits of the caller for the current billing period
// @Security Bearer
// @Tags usage
// @Produce json
// @Success 200 {object} utils.APIResponse{data=usecases.UsageSnapshot}
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 429 {object} utils.DenialResponse "Rate limited"
// @Failure 503 {object} utils.APIResponse "Usage store unavailable"
// @Router /api/usage [get]
func (h *UsageHandler) GetUsage(c *gin.Context) {
	userID := middleware.UserID(c)

	snapshot, err := h.tracker.Snapshot(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to load usage snapshot", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", snapshot)
}
