package handlers

import (
	"context"

	"github.com/davomat-inc/davomat/internal/application/auth/usecases"
)

// Use case interfaces for AuthHandler - enables unit testing with mocks.

type loginUseCase interface {
	Execute(ctx context.Context, cmd usecases.LoginCommand) (*usecases.AuthResult, error)
}

type refreshUseCase interface {
	Execute(ctx context.Context, cmd usecases.RefreshCommand) (*usecases.AuthResult, error)
}

type logoutUseCase interface {
	Execute(ctx context.Context, cmd usecases.LogoutCommand)
}

type changePasswordUseCase interface {
	Execute(ctx context.Context, cmd usecases.ChangePasswordCommand) error
}

type revokeUserSessionsUseCase interface {
	Execute(ctx context.Context, cmd usecases.RevokeUserSessionsCommand) (*usecases.RevokeUserSessionsResult, error)
}
