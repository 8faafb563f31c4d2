package utils

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/shared/config"
)

// RefreshCookiePath scopes the refresh cookie to the auth endpoints so it is
// never sent to the rest of the API.
const RefreshCookiePath = "/api/auth"

// SetRefreshCookie stores the raw refresh token as an HttpOnly cookie.
func SetRefreshCookie(c *gin.Context, cfg config.CookieConfig, token string, ttl time.Duration) {
	c.SetSameSite(parseSameSite(cfg.SameSite))
	c.SetCookie(
		cfg.Name,
		token,
		int(ttl/time.Second),
		RefreshCookiePath,
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly
	)
}

// ClearRefreshCookie expires the refresh cookie with the same attributes it
// was set with.
func ClearRefreshCookie(c *gin.Context, cfg config.CookieConfig) {
	c.SetSameSite(parseSameSite(cfg.SameSite))
	c.SetCookie(
		cfg.Name,
		"",
		-1,
		RefreshCookiePath,
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly
	)
}

// GetRefreshCookie returns the refresh token or "" when absent.
func GetRefreshCookie(c *gin.Context, cfg config.CookieConfig) string {
	token, err := c.Cookie(cfg.Name)
	if err != nil {
		return ""
	}
	return token
}

func parseSameSite(sameSite string) http.SameSite {
	switch strings.ToLower(sameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
