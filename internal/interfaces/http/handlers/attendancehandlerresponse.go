package handlers

import (
	"time"

	"github.com/davomat-inc/davomat/internal/application/attendance/usecases"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
)

// SessionResponse is an attendance session as returned by open.
type SessionResponse struct {
	ID          string     `json:"id"`
	GroupID     string     `json:"groupId"`
	TeacherID   string     `json:"teacherId"`
	RoomID      *string    `json:"roomId"`
	Date        string     `json:"date"`
	StartMin    int        `json:"startMin"`
	EndMin      int        `json:"endMin"`
	OpenAt      time.Time  `json:"openAt"`
	CloseAt     time.Time  `json:"closeAt"`
	Status      string     `json:"status"`
	LockedAt    *time.Time `json:"lockedAt"`
	FinalizedAt *time.Time `json:"finalizedAt"`
	Note        *string    `json:"note"`
	Created     bool       `json:"created"`
}

func toSessionResponse(r *usecases.OpenSessionResult) *SessionResponse {
	s := r.Session
	return &SessionResponse{
		ID:          s.ID,
		GroupID:     s.GroupID,
		TeacherID:   s.TeacherID,
		RoomID:      s.RoomID,
		Date:        biztime.FormatDate(s.Date),
		StartMin:    s.StartMin,
		EndMin:      s.EndMin,
		OpenAt:      s.OpenAt,
		CloseAt:     s.CloseAt,
		Status:      string(s.Status),
		LockedAt:    s.LockedAt,
		FinalizedAt: s.FinalizedAt,
		Note:        s.Note,
		Created:     r.Created,
	}
}
