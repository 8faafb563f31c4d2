package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/domain/group"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

type MonthlyGridQuery struct {
	GroupID string
	Month   string
}

type GridSession struct {
	ID          string                   `json:"id"`
	Date        string                   `json:"date"`
	StartMin    int                      `json:"startMin"`
	EndMin      int                      `json:"endMin"`
	OpenAt      time.Time                `json:"openAt"`
	CloseAt     time.Time                `json:"closeAt"`
	Status      attendance.SessionStatus `json:"status"`
	LockedAt    *time.Time               `json:"lockedAt"`
	FinalizedAt *time.Time               `json:"finalizedAt"`
}

type GridCell struct {
	Status  attendance.Status `json:"status"`
	Comment *string           `json:"comment"`
}

type MonthlyGridResult struct {
	Sessions []GridSession              `json:"sessions"`
	Students []enrollment.ActiveStudent `json:"students"`

	// AttendanceMap is keyed by session id, then student id. Unmarked
	// students have no entry.
	AttendanceMap map[string]map[string]GridCell `json:"attendanceMap"`
}

type MonthlyGridUseCase struct {
	sessions    attendance.SessionRepository
	records     attendance.RecordRepository
	enrollments enrollment.Repository
	groups      group.Repository
	logger      logger.Interface
}

func NewMonthlyGridUseCase(
	sessions attendance.SessionRepository,
	records attendance.RecordRepository,
	enrollments enrollment.Repository,
	groups group.Repository,
	logger logger.Interface,
) *MonthlyGridUseCase {
	return &MonthlyGridUseCase{
		sessions:    sessions,
		records:     records,
		enrollments: enrollments,
		groups:      groups,
		logger:      logger,
	}
}

func (uc *MonthlyGridUseCase) Execute(ctx context.Context, q MonthlyGridQuery) (*MonthlyGridResult, error) {
	g, err := uc.groups.GetActiveByID(ctx, q.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if g == nil {
		return nil, errors.NewNotFoundError("group not found")
	}

	from, to, err := biztime.MonthRange(q.Month)
	if err != nil {
		return nil, errors.NewValidationError("month must be in YYYY-MM format", err.Error())
	}

	sessions, err := uc.sessions.ListByGroupAndDateRange(ctx, g.ID, from, to)
	if err != nil {
		return nil, err
	}
	students, err := uc.enrollments.ListActiveStudents(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	result := &MonthlyGridResult{
		Sessions:      make([]GridSession, 0, len(sessions)),
		Students:      students,
		AttendanceMap: make(map[string]map[string]GridCell),
	}
	sessionIDs := make([]string, 0, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
		result.Sessions = append(result.Sessions, GridSession{
			ID:          s.ID,
			Date:        biztime.FormatDate(s.Date),
			StartMin:    s.StartMin,
			EndMin:      s.EndMin,
			OpenAt:      s.OpenAt,
			CloseAt:     s.CloseAt,
			Status:      s.Status,
			LockedAt:    s.LockedAt,
			FinalizedAt: s.FinalizedAt,
		})
	}

	records, err := uc.records.ListBySessionIDs(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		row, ok := result.AttendanceMap[r.SessionID]
		if !ok {
			row = make(map[string]GridCell)
			result.AttendanceMap[r.SessionID] = row
		}
		row[r.StudentID] = GridCell{Status: r.Status, Comment: r.Comment}
	}

	uc.logger.Debugw("monthly grid built",
		"group_id", g.ID,
		"month", q.Month,
		"sessions", len(result.Sessions),
		"students", len(result.Students),
	)
	return result, nil
}
