package permission

import (
	"fmt"

	"github.com/davomat-inc/davomat/internal/shared/authorization"
)

// Resources and actions used by the HTTP role gate.
const (
	ResourceAttendance   = "attendance"
	ResourceEnrollment   = "enrollment"
	ResourceUserSessions = "user_sessions"

	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// DefaultPolicies is the built-in role matrix. Teachers are additionally
// checked against the session's group by the attendance use cases.
func DefaultPolicies() [][]string {
	admin := string(authorization.RoleAdmin)
	manager := string(authorization.RoleManager)
	teacher := string(authorization.RoleTeacher)

	return [][]string{
		{teacher, ResourceAttendance, ActionWrite},
		{admin, ResourceAttendance, ActionRead},
		{manager, ResourceAttendance, ActionRead},
		{teacher, ResourceAttendance, ActionRead},

		{admin, ResourceEnrollment, ActionRead},
		{admin, ResourceEnrollment, ActionWrite},
		{admin, ResourceEnrollment, ActionDelete},
		{manager, ResourceEnrollment, ActionRead},
		{manager, ResourceEnrollment, ActionWrite},

		{admin, ResourceUserSessions, ActionDelete},
	}
}

// EnsureDefaultPolicies adds every missing default rule. Existing rules,
// including ones added by operators, are left alone.
func (e *Enforcer) EnsureDefaultPolicies() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, p := range DefaultPolicies() {
		ok, err := e.enforcer.AddPolicy(p[0], p[1], p[2])
		if err != nil {
			e.logger.Errorw("failed to add default policy",
				"error", err,
				"role", p[0],
				"resource", p[1],
				"action", p[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p[0], p[1], p[2], err)
		}
		if ok {
			added++
		}
	}

	e.logger.Infow("default permissions ensured", "added", added)
	return nil
}
