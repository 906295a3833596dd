package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwell-cms/inkwell/internal/shared"
)

// Guard is a request-time predicate. It returns nil to allow the request to
// continue or a typed error describing why it was denied. Guards never
// mutate state.
type Guard func(ctx context.Context) error

// Evaluate runs guards in order and stops at the first denial, so a later
// guard's lookup never executes once an earlier guard has denied.
func Evaluate(ctx context.Context, guards ...Guard) error {
	for _, guard := range guards {
		if guard == nil {
			continue
		}
		if err := guard(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RoleGuard checks the caller's current role against the route's required
// roles. An empty requirement allows any caller, authenticated or not.
func RoleGuard(lookup PrincipalLookup, required []Role, principalID string) Guard {
	return func(ctx context.Context) error {
		if len(required) == 0 {
			return nil
		}
		if principalID == "" {
			return shared.ErrUnauthenticated
		}
		principal, err := lookup.Principal(ctx, principalID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// Unknown principal: identity was asserted but no longer
				// resolves, so the request is denied rather than errored.
				return fmt.Errorf("%w: principal %s not found", shared.ErrForbidden, principalID)
			}
			return fmt.Errorf("authz: resolve principal: %w", err)
		}
		for _, role := range required {
			if principal.Role == role {
				return nil
			}
		}
		return fmt.Errorf("%w: role %s not permitted", shared.ErrForbidden, principal.Role)
	}
}

// OwnershipGuard checks that the caller owns the addressed resource. The
// comparison is strictly between the resource's owner id and the caller's
// id; a resource whose own id happens to equal the caller's id does not
// pass.
func OwnershipGuard(lookup ResourceLookup, resourceID, principalID string) Guard {
	return func(ctx context.Context) error {
		if principalID == "" {
			return shared.ErrUnauthenticated
		}
		ownerID, err := lookup.Owner(ctx, resourceID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("%w: resource %s", shared.ErrNotFound, resourceID)
			}
			return fmt.Errorf("authz: resolve resource owner: %w", err)
		}
		if ownerID != principalID {
			return fmt.Errorf("%w: caller does not own resource %s", shared.ErrForbidden, resourceID)
		}
		return nil
	}
}
