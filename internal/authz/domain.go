// Package authz implements role and ownership checks for protected routes.
package authz

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkwell-cms/inkwell/internal/shared"
)

// Role is a coarse permission tier controlling access to restricted routes.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

// ParseRole normalizes and validates a role name.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case RoleAdmin, RoleEditor, RoleUser:
		return role, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", shared.ErrInvalidInput, value)
}

// Principal is an authenticated identity.
type Principal struct {
	ID   string
	Role Role
}

// PrincipalLookup resolves a principal id to its current record. The role is
// read fresh on every authorization decision so role changes take effect on
// the next request, not retroactively on already-issued tokens.
type PrincipalLookup interface {
	Principal(ctx context.Context, id string) (Principal, error)
}

// ResourceLookup resolves a resource id to its owning principal id.
type ResourceLookup interface {
	Owner(ctx context.Context, resourceID string) (string, error)
}

// Requirement declares what a route demands of the caller. The zero value
// means the route is unrestricted.
type Requirement struct {
	// Roles lists acceptable roles; empty means no role restriction.
	Roles []Role
	// Ownership requires the caller to own the addressed resource.
	Ownership bool
}
