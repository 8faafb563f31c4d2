package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davomat-inc/davomat/internal/application/auth/usecases"
	"github.com/davomat-inc/davomat/internal/infrastructure/ratelimit"
	"github.com/davomat-inc/davomat/internal/shared/authorization"
	"github.com/davomat-inc/davomat/internal/shared/constants"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockVerifier struct {
	identity *usecases.Identity
	err      error
	token    string
}

func (m *mockVerifier) Execute(ctx context.Context, token string) (*usecases.Identity, error) {
	m.token = token
	return m.identity, m.err
}

type mockEnforcer struct {
	allowed bool
	err     error
	subject string
}

func (m *mockEnforcer) Enforce(subject, resource, action string) (bool, error) {
	m.subject = subject
	return m.allowed, m.err
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, ratelimit.Rule) (bool, error) {
	return false, stderrors.New("connection refused")
}

func (failingLimiter) Remaining(context.Context, string, ratelimit.Rule) (int64, error) {
	return 0, stderrors.New("connection refused")
}

func (failingLimiter) Reset(context.Context, string) error { return nil }

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetString(constants.ContextKeyUserID),
		"role":    c.GetString(constants.ContextKeyUserRole),
	})
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// =====================================================================
// AuthMiddleware
// =====================================================================

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   *mockVerifier
		wantStatus int
	}{
		{
			name:       "missing header",
			header:     "",
			verifier:   &mockVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			verifier:   &mockVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "revoked generation",
			header:     "Bearer stale",
			verifier:   &mockVerifier{err: errors.NewTokenRevokedError("token revoked")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "valid token",
			header: "Bearer good",
			verifier: &mockVerifier{identity: &usecases.Identity{
				UserID: "u1",
				Role:   authorization.RoleTeacher,
			}},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(tt.verifier, logger.NewNop())
			engine := gin.New()
			engine.GET("/me", m.RequireAuth(), okHandler)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			w := serve(engine, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "good", tt.verifier.token)
				assert.JSONEq(t, `{"user_id":"u1","role":"TEACHER"}`, w.Body.String())
			}
		})
	}
}

func TestRequirePasswordChanged(t *testing.T) {
	verifier := &mockVerifier{identity: &usecases.Identity{
		UserID:             "u1",
		Role:               authorization.RoleTeacher,
		MustChangePassword: true,
	}}
	m := NewAuthMiddleware(verifier, logger.NewNop())

	engine := gin.New()
	engine.GET("/api/auth/me", m.RequireAuth(), okHandler)
	engine.GET("/api/enrollments", m.RequireAuth(), m.RequirePasswordChanged(), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer t")
	assert.Equal(t, http.StatusOK, serve(engine, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/enrollments", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer t")
	w := serve(engine, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "password change required")

	verifier.identity.MustChangePassword = false
	req = httptest.NewRequest(http.MethodGet, "/api/enrollments", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer t")
	assert.Equal(t, http.StatusOK, serve(engine, req).Code)
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = bearerToken("Bearer   ")
	assert.False(t, ok)

	_, ok = bearerToken("abc.def")
	assert.False(t, ok)
}

// =====================================================================
// PermissionMiddleware
// =====================================================================

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role != "" {
			c.Set(constants.ContextKeyUserRole, role)
		}
		c.Next()
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		enforcer   *mockEnforcer
		wantStatus int
	}{
		{"allowed", "ADMIN", &mockEnforcer{allowed: true}, http.StatusOK},
		{"denied", "TEACHER", &mockEnforcer{allowed: false}, http.StatusForbidden},
		{"no role", "", &mockEnforcer{allowed: true}, http.StatusUnauthorized},
		{"enforcer failure", "ADMIN", &mockEnforcer{err: stderrors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPermissionMiddleware(tt.enforcer, logger.NewNop())
			engine := gin.New()
			engine.DELETE("/x", withRole(tt.role), m.RequirePermission("enrollment", "delete"), okHandler)

			w := serve(engine, httptest.NewRequest(http.MethodDelete, "/x", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.role != "" {
				assert.Equal(t, tt.role, tt.enforcer.subject)
			}
		})
	}
}

// =====================================================================
// RateLimiter
// =====================================================================

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(ratelimit.NewMemoryRateLimiter(), "login", ratelimit.Rule{Limit: 2, Window: time.Minute}, logger.NewNop())
	engine := gin.New()
	engine.POST("/login", rl.Limit(), okHandler)

	for i := 0; i < 2; i++ {
		w := serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimiter_ScopesAreIndependent(t *testing.T) {
	limiter := ratelimit.NewMemoryRateLimiter()
	rule := ratelimit.Rule{Limit: 1, Window: time.Minute}
	login := NewRateLimiter(limiter, "login", rule, logger.NewNop())
	refresh := NewRateLimiter(limiter, "refresh", rule, logger.NewNop())

	engine := gin.New()
	engine.POST("/login", login.Limit(), okHandler)
	engine.POST("/refresh", refresh.Limit(), okHandler)

	assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodPost, "/refresh", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	rl := NewRateLimiter(failingLimiter{}, "default", ratelimit.Rule{Limit: 1, Window: time.Minute}, logger.NewNop())
	engine := gin.New()
	engine.GET("/x", rl.Limit(), okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
}

// =====================================================================
// Recovery / RequestID
// =====================================================================

func TestRecovery_ReturnsInternalError(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID(), Recovery(logger.NewNop()))
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-123")
	w := serve(engine, req)

	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(constants.HeaderXRequestID))
}
