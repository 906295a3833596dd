package authz

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/inkwell/internal/platform/httpx"
	"github.com/inkwell-cms/inkwell/internal/shared"
)

// Middleware wires authorization guards for HTTP handlers. Guards run after
// the transport layer has authenticated the bearer token and attached the
// principal id to the request context.
type Middleware struct {
	Principals PrincipalLookup
	Resources  ResourceLookup
	Logger     *slog.Logger
}

// Require evaluates the requirement against each request. Role and ownership
// checks run sequentially and short-circuit on the first denial, so the
// resource lookup never runs when the role check already denied.
// resourceParam names the chi URL parameter carrying the resource id; it is
// only consulted when req.Ownership is set.
func (m Middleware) Require(req Requirement, resourceParam string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			principalID := shared.PrincipalIDFromContext(ctx)

			guards := []Guard{RoleGuard(m.Principals, req.Roles, principalID)}
			if req.Ownership {
				resourceID := chi.URLParam(r, resourceParam)
				guards = append(guards, OwnershipGuard(m.Resources, resourceID, principalID))
			}

			if err := Evaluate(ctx, guards...); err != nil {
				m.deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles restricts a route to callers holding one of the given roles.
func (m Middleware) RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	return m.Require(Requirement{Roles: roles}, "")
}

// RequireOwner restricts a route to the owner of the resource addressed by
// the named URL parameter.
func (m Middleware) RequireOwner(resourceParam string) func(http.Handler) http.Handler {
	return m.Require(Requirement{Ownership: true}, resourceParam)
}

// RequireAuthenticated rejects anonymous requests without imposing a role or
// ownership restriction.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.PrincipalIDFromContext(r.Context()) == "" {
			m.deny(w, r, shared.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request, err error) {
	if m.Logger != nil {
		m.Logger.Debug("authorization denied",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
