package models

import "strings"

// Role identifies which page a session represents.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleMentor    Role = "mentor"
	RoleApplicant Role = "applicant"
)

// ParseRole normalises a role string. Unknown values report false.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleMentor:
		return RoleMentor, true
	case RoleApplicant:
		return RoleApplicant, true
	default:
		return "", false
	}
}

// IsViewer reports whether the role selects availability rather than blocking slots.
func (r Role) IsViewer() bool {
	return r == RoleMentor || r == RoleApplicant
}
