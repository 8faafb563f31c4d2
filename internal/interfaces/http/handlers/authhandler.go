package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/application/auth/usecases"
	"github.com/davomat-inc/davomat/internal/shared/authorization"
	"github.com/davomat-inc/davomat/internal/shared/config"
	"github.com/davomat-inc/davomat/internal/shared/constants"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/utils"
)

type AuthHandler struct {
	loginUseCase          loginUseCase
	refreshUseCase        refreshUseCase
	logoutUseCase         logoutUseCase
	changePasswordUseCase changePasswordUseCase
	cookieConfig          config.CookieConfig
	refreshTTL            time.Duration
	logger                logger.Interface
}

func NewAuthHandler(
	loginUC loginUseCase,
	refreshUC refreshUseCase,
	logoutUC logoutUseCase,
	changePasswordUC changePasswordUseCase,
	cookieConfig config.CookieConfig,
	refreshTTL time.Duration,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:          loginUC,
		refreshUseCase:        refreshUC,
		logoutUseCase:         logoutUC,
		changePasswordUseCase: changePasswordUC,
		cookieConfig:          cookieConfig,
		refreshTTL:            refreshTTL,
		logger:                logger,
	}
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required,phone"`
	Password string `json:"password" binding:"required,max=256"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=256"`
}

// Login handles POST /api/auth/login
// @Summary Sign in with phone and password
// @Description Returns an access token and sets the HttpOnly refresh cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse{data=LoginResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), usecases.LoginCommand{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SetRefreshCookie(c, h.cookieConfig, result.RefreshToken, h.refreshTTL)
	utils.SuccessResponse(c, http.StatusOK, "", toLoginResponse(result))
}

// Refresh handles POST /api/auth/refresh. The refresh token is read from the
// cookie only; a failed rotation clears it.
// @Summary Rotate the refresh token
// @Description Reads the refresh cookie, issues a new pair and re-sets the cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse{data=LoginResponse}
// @Failure 401 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw := utils.GetRefreshCookie(c, h.cookieConfig)
	if raw == "" {
		utils.ErrorResponseWithError(c, errors.NewTokenInvalidError("missing token"))
		return
	}

	result, err := h.refreshUseCase.Execute(c.Request.Context(), usecases.RefreshCommand{RefreshToken: raw})
	if err != nil {
		if errors.IsAuthError(err) {
			utils.ClearRefreshCookie(c, h.cookieConfig)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SetRefreshCookie(c, h.cookieConfig, result.RefreshToken, h.refreshTTL)
	utils.SuccessResponse(c, http.StatusOK, "", toLoginResponse(result))
}

// Logout handles POST /api/auth/logout. It always succeeds.
// @Summary Sign out
// @Description Revokes the refresh token from the cookie and clears it
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse{data=okResponse}
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	raw := utils.GetRefreshCookie(c, h.cookieConfig)
	h.logoutUseCase.Execute(c.Request.Context(), usecases.LogoutCommand{RefreshToken: raw})

	utils.ClearRefreshCookie(c, h.cookieConfig)
	utils.SuccessResponse(c, http.StatusOK, "", okResponse{OK: true})
}

// Me handles GET /api/auth/me
// @Summary Current identity
// @Tags Auth
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=usecases.Identity}
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		utils.ErrorResponseWithError(c, errors.NewTokenInvalidError("missing token"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", usecases.Identity{
		UserID:             userID,
		Role:               authorization.UserRole(c.GetString(constants.ContextKeyUserRole)),
		MustChangePassword: c.GetBool(constants.ContextKeyMustChangePassword),
	})
}

// ChangePassword handles POST /api/auth/change-password. Every session of
// the caller ends, so the refresh cookie is cleared as well.
// @Summary Change own password
// @Tags Auth
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} utils.APIResponse{data=okResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.changePasswordUseCase.Execute(c.Request.Context(), usecases.ChangePasswordCommand{
		UserID:          currentUserID(c),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ClearRefreshCookie(c, h.cookieConfig)
	utils.SuccessResponse(c, http.StatusOK, "password changed, please sign in again", okResponse{OK: true})
}
