package usecases

import (
	"context"

	"github.com/davomat-inc/davomat/internal/domain/user"
	"github.com/davomat-inc/davomat/internal/infrastructure/auth"
	"github.com/davomat-inc/davomat/internal/shared/authorization"
)

type mockUserRepository struct {
	CreateFunc            func(ctx context.Context, u *user.User) error
	GetByIDFunc           func(ctx context.Context, id string) (*user.User, error)
	GetByPhoneFunc        func(ctx context.Context, phone string) (*user.User, error)
	GetTokenVersionFunc   func(ctx context.Context, id string) (int, bool, error)
	UpdateCredentialsFunc func(ctx context.Context, u *user.User) error
	BumpTokenVersionFunc  func(ctx context.Context, id string) (int, error)
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) GetByPhone(ctx context.Context, phone string) (*user.User, error) {
	if m.GetByPhoneFunc != nil {
		return m.GetByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

func (m *mockUserRepository) GetTokenVersion(ctx context.Context, id string) (int, bool, error) {
	if m.GetTokenVersionFunc != nil {
		return m.GetTokenVersionFunc(ctx, id)
	}
	return 0, false, nil
}

func (m *mockUserRepository) UpdateCredentials(ctx context.Context, u *user.User) error {
	if m.UpdateCredentialsFunc != nil {
		return m.UpdateCredentialsFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) BumpTokenVersion(ctx context.Context, id string) (int, error) {
	if m.BumpTokenVersionFunc != nil {
		return m.BumpTokenVersionFunc(ctx, id)
	}
	return 0, nil
}

type mockPasswordHasher struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(encoded, password string) (bool, error)
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockPasswordHasher) Verify(encoded, password string) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(encoded, password)
	}
	return encoded == "hashed:"+password, nil
}

type mockAccessIssuer struct {
	SignFunc func(ctx context.Context, userID string, role authorization.UserRole) (string, error)
}

func (m *mockAccessIssuer) Sign(ctx context.Context, userID string, role authorization.UserRole) (string, error) {
	if m.SignFunc != nil {
		return m.SignFunc(ctx, userID, role)
	}
	return "access-" + userID, nil
}

type mockRefreshLedger struct {
	IssueFunc     func(ctx context.Context, userID string) (string, error)
	RotateFunc    func(ctx context.Context, raw string) (*user.User, string, error)
	RevokeFunc    func(ctx context.Context, raw string)
	RevokeAllFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *mockRefreshLedger) Issue(ctx context.Context, userID string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, userID)
	}
	return "refresh-" + userID, nil
}

func (m *mockRefreshLedger) Rotate(ctx context.Context, raw string) (*user.User, string, error) {
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, raw)
	}
	return nil, "", nil
}

func (m *mockRefreshLedger) Revoke(ctx context.Context, raw string) {
	if m.RevokeFunc != nil {
		m.RevokeFunc(ctx, raw)
	}
}

func (m *mockRefreshLedger) RevokeAll(ctx context.Context, userID string) (int64, error) {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, userID)
	}
	return 0, nil
}

type mockVerifier struct {
	VerifyAccessFunc func(token string) (*auth.AccessClaims, error)
}

func (m *mockVerifier) VerifyAccess(token string) (*auth.AccessClaims, error) {
	if m.VerifyAccessFunc != nil {
		return m.VerifyAccessFunc(token)
	}
	return nil, nil
}

// mockTransactor runs fn inline and reports how often it was used.
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type recordingMetrics struct {
	logins    []string
	refreshes []string
}

func (m *recordingMetrics) LoginAttempt(result string)   { m.logins = append(m.logins, result) }
func (m *recordingMetrics) RefreshAttempt(result string) { m.refreshes = append(m.refreshes, result) }
