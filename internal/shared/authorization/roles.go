// Package authorization holds the role vocabulary shared by the domain,
// the token codec and the HTTP role gate.
package authorization

import "strings"

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// AllRoles lists every role in privilege order.
var AllRoles = []UserRole{RoleAdmin, RoleManager, RoleTeacher, RoleStudent}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// IsStaff reports whether the role manages groups and enrollments.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// ParseUserRole accepts any letter case. ok is false for unknown roles.
func ParseUserRole(s string) (UserRole, bool) {
	role := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	return role, role.IsValid()
}
