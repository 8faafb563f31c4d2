package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/shared/constants"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/utils"
)

// PolicyEnforcer is implemented by permission.Enforcer.
type PolicyEnforcer interface {
	Enforce(subject, resource, action string) (bool, error)
}

type PermissionMiddleware struct {
	enforcer PolicyEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer PolicyEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// RequirePermission checks the caller's role against the policy table.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constants.ContextKeyUserRole)
		if role == "" {
			utils.AbortWithError(c, errors.NewTokenInvalidError("missing token"))
			return
		}

		allowed, err := m.enforcer.Enforce(role, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
			utils.AbortWithError(c, errors.NewInternalError("permission check failed"))
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied",
				"user_id", c.GetString(constants.ContextKeyUserID),
				"role", role,
				"resource", resource,
				"action", action)
			utils.AbortWithError(c, errors.NewForbiddenError(constants.ErrMsgForbidden))
			return
		}

		c.Next()
	}
}
