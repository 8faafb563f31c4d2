package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/application/auth/usecases"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/utils"
)

type UserHandler struct {
	revokeSessionsUseCase revokeUserSessionsUseCase
	logger                logger.Interface
}

func NewUserHandler(revokeSessionsUC revokeUserSessionsUseCase, logger logger.Interface) *UserHandler {
	return &UserHandler{
		revokeSessionsUseCase: revokeSessionsUC,
		logger:                logger,
	}
}

// RevokeSessions handles POST /api/users/:id/revoke-sessions
// @Summary Revoke every session of a user
// @Tags Users
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Success 200 {object} utils.APIResponse{data=usecases.RevokeUserSessionsResult}
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/users/{id}/revoke-sessions [post]
func (h *UserHandler) RevokeSessions(c *gin.Context) {
	result, err := h.revokeSessionsUseCase.Execute(c.Request.Context(), usecases.RevokeUserSessionsCommand{
		ActorID:      currentUserID(c),
		TargetUserID: c.Param("id"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "sessions revoked", result)
}

// HealthCheck handles GET /health
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /health [get]
func (h *UserHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "davomat",
	})
}
