package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of administrative roles. Any value outside the two
// constants below is rejected at the API boundary and never persisted.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	default:
		return "", fmt.Errorf("role must be admin or superadmin, got %q", s)
	}
}

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) String() string {
	return string(r)
}
