package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/shared/constants"
	"github.com/davomat-inc/davomat/internal/shared/utils"
)

// currentUserID returns the authenticated caller set by the auth middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyUserID)
}

// bindJSON binds the request body and renders a validation error on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return false
	}
	return true
}

type okResponse struct {
	OK bool `json:"ok"`
}
