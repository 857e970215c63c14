package auth

import (
	"slices"
	"time"
)

// Identity is the authenticated caller.
type Identity struct {
	Principal string
	Roles     []string
	Claims    map[string]any
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// HasRole reports whether the identity carries role.
func (id *Identity) HasRole(role string) bool {
	return slices.Contains(id.Roles, role)
}
