// internal/domain/models/role.go
package models

import (
	"fmt"
	"strings"
)

// Role is the sole authorization signal. There are exactly three.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleUser   Role = "user"
)

// ParseRole normalizes s and returns the matching Role.
// Anything outside the three fixed roles is an error.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleMember, RoleUser:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// DashboardPath is the entry page for the role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleMember:
		return "/member"
	case RoleUser:
		return "/user"
	}
	return "/login"
}

// AuditPrefix is the upper-case prefix used in LOGIN/LOGOUT audit actions.
func (r Role) AuditPrefix() string {
	return strings.ToUpper(string(r))
}

func (r Role) String() string { return string(r) }
