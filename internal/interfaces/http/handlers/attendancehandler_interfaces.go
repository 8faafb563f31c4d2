package handlers

import (
	"context"

	"github.com/davomat-inc/davomat/internal/application/attendance/usecases"
)

type openSessionUseCase interface {
	Execute(ctx context.Context, cmd usecases.OpenSessionCommand) (*usecases.OpenSessionResult, error)
}

type markAttendanceUseCase interface {
	Execute(ctx context.Context, cmd usecases.MarkCommand) (*usecases.MarkResult, error)
}

type bulkMarkUseCase interface {
	Execute(ctx context.Context, cmd usecases.BulkMarkCommand) (*usecases.BulkMarkResult, error)
}

type finalizeSessionUseCase interface {
	Execute(ctx context.Context, cmd usecases.FinalizeCommand) (*usecases.FinalizeResult, error)
}

type monthlyGridUseCase interface {
	Execute(ctx context.Context, q usecases.MonthlyGridQuery) (*usecases.MonthlyGridResult, error)
}
