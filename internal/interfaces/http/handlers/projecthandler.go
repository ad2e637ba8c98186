package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"karnex/internal/application/project/usecases"
	"karnex/internal/interfaces/http/middleware"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/utils"
)

type createProjectUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateProjectCommand) (*usecases.ProjectResult, error)
}

type listProjectsUseCase interface {
	Execute(ctx context.Context, userID uint) ([]*usecases.ProjectResult, error)
}

type ProjectHandler struct {
	createProjectUC createProjectUseCase
	listProjectsUC  listProjectsUseCase
	logger          logger.Interface
}

func NewProjectHandler(createProjectUC createProjectUseCase, listProjectsUC listProjectsUseCase, logger logger.Interface) *ProjectHandler {
	return &ProjectHandler{
		createProjectUC: createProjectUC,
		listProjectsUC:  listProjectsUC,
		logger:          logger,
	}
}

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
	Idea string `json:"idea"`
}

// CreateProject godoc
// @Summary Create project
// @Description Create a project. Counts against the plan's project limit for the billing period.
// @Security Bearer
// @Tags projects
// @Accept json
// @Produce json
// @Param request body CreateProjectRequest true "Project data"
// @Success 201 {object} utils.APIResponse{data=usecases.ProjectResult}
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 429 {object} utils.DenialResponse "Rate limited or project limit exceeded"
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid create project request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.createProjectUC.Execute(c.Request.Context(), usecases.CreateProjectCommand{
		UserID: middleware.UserID(c),
		Name:   req.Name,
		Idea:   req.Idea,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Project created successfully")
}

// ListProjects godoc
// @Summary List projects
// @Security Bearer
// @Tags projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse{data=utils.PageResponse[usecases.ProjectResult]}
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 429 {object} utils.DenialResponse "Rate limited"
// @Router /api/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	results, err := h.listProjectsUC.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", utils.Paginate(results, pagination))
}
