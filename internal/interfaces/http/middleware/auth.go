package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/application/auth/usecases"
	"github.com/davomat-inc/davomat/internal/shared/constants"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/utils"
)

// ErrPasswordChangeRequired blocks accounts that still use an initial password.
var ErrPasswordChangeRequired = errors.NewForbiddenError("password change required")

type accessTokenVerifier interface {
	Execute(ctx context.Context, token string) (*usecases.Identity, error)
}

type AuthMiddleware struct {
	verifier accessTokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier accessTokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth verifies the bearer access token against the stored account
// and puts the caller's id, role and must-change flag on the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			utils.AbortWithError(c, errors.NewTokenInvalidError("missing token"))
			return
		}

		identity, err := m.verifier.Execute(c.Request.Context(), token)
		if err != nil {
			if !errors.IsAppError(err) {
				m.logger.Errorw("failed to verify access token", "error", err)
			}
			utils.AbortWithError(c, err)
			return
		}

		c.Set(constants.ContextKeyUserID, identity.UserID)
		c.Set(constants.ContextKeyUserRole, string(identity.Role))
		c.Set(constants.ContextKeyMustChangePassword, identity.MustChangePassword)

		c.Next()
	}
}

// RequirePasswordChanged rejects callers that must change their password
// first. It runs after RequireAuth on every non-auth route.
func (m *AuthMiddleware) RequirePasswordChanged() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(constants.ContextKeyMustChangePassword) {
			utils.AbortWithError(c, ErrPasswordChangeRequired)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
