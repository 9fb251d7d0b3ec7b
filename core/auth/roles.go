package auth

import "strings"

// Role is one of the fixed portal roles. Any value outside the set is
// normalized to RoleStudent.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
)

var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

// ParseRole maps an arbitrary role string onto the fixed role set,
// case-insensitively. Unrecognized values fall back to RoleStudent.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleTeacher:
		return RoleTeacher
	case RoleParent:
		return RoleParent
	default:
		return RoleStudent
	}
}

// LandingPath returns the dashboard root for the role.
// This is the single role -> path mapping; every redirect goes through it.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleTeacher:
		return "/teacher/dashboard"
	case RoleParent:
		return "/parent/dashboard"
	default:
		return "/student/dashboard"
	}
}
