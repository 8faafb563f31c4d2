package usecases

import (
	"context"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/infrastructure/auth"
	"github.com/davomat-inc/davomat/internal/shared/authorization"
)

// RefreshLedger is implemented by services.RefreshTokenLedger.
type RefreshLedger interface {
	Issue(ctx context.Context, userID string) (string, error)
	Rotate(ctx context.Context, raw string) (*user.User, string, error)
	Revoke(ctx context.Context, raw string)
	RevokeAll(ctx context.Context, userID string) (int64, error)
}

// AccessIssuer is implemented by services.AccessTokenIssuer.
type AccessIssuer interface {
	Sign(ctx context.Context, userID string, role authorization.UserRole) (string, error)
}

type AccessTokenVerifier interface {
	VerifyAccess(token string) (*auth.AccessClaims, error)
}

// AuthMetrics counts login and refresh outcomes.
type AuthMetrics interface {
	LoginAttempt(result string)
	RefreshAttempt(result string)
}

type nopAuthMetrics struct{}

func (nopAuthMetrics) LoginAttempt(string)   {}
func (nopAuthMetrics) RefreshAttempt(string) {}

const resultSuccess = "success"

// outcome is the metrics label of err.
func outcome(err error) string {
	if err == nil {
		return resultSuccess
	}
	if t := errorType(err); t != "" {
		return t
	}
	return "error"
}

// AuthResult is returned by login and refresh.
type AuthResult struct {
	UserID             string
	Role               authorization.UserRole
	AccessToken        string
	RefreshToken       string
	MustChangePassword bool
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID             string                 `json:"userId"`
	Role               authorization.UserRole `json:"role"`
	MustChangePassword bool                   `json:"mustChangePassword"`
}
