package authz_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/inkwell/internal/authz"
	"github.com/inkwell-cms/inkwell/internal/shared"
	_ "github.com/inkwell-cms/inkwell/testing"
)

type stubPrincipals struct {
	principals map[string]authz.Principal
}

func (s *stubPrincipals) Principal(ctx context.Context, id string) (authz.Principal, error) {
	principal, ok := s.principals[id]
	if !ok {
		return authz.Principal{}, shared.ErrNotFound
	}
	return principal, nil
}

type stubResources struct {
	owners map[string]string
	calls  int
}

func (s *stubResources) Owner(ctx context.Context, resourceID string) (string, error) {
	s.calls++
	ownerID, ok := s.owners[resourceID]
	if !ok {
		return "", shared.ErrNotFound
	}
	return ownerID, nil
}

func newTestRouter(mw authz.Middleware) (chi.Router, *stubResources) {
	resources := mw.Resources.(*stubResources)
	r := chi.NewRouter()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.With(mw.RequireRoles(authz.RoleAdmin)).Get("/admin", ok)
	r.With(mw.RequireAuthenticated).Get("/me", ok)
	r.With(mw.RequireOwner("id")).Delete("/posts/{id}", ok)
	r.With(mw.Require(authz.Requirement{
		Roles:     []authz.Role{authz.RoleAdmin},
		Ownership: true,
	}, "id")).Put("/locked/{id}", ok)
	return r, resources
}

func doRequest(router chi.Router, method, target, principalID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if principalID != "" {
		req = req.WithContext(shared.ContextWithPrincipalID(req.Context(), principalID))
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestMiddlewareRoleRouteAnonymousGets401(t *testing.T) {
	router, _ := newTestRouter(authz.Middleware{
		Principals: &stubPrincipals{},
		Resources:  &stubResources{},
	})

	res := doRequest(router, http.MethodGet, "/admin", "")
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestMiddlewareRoleRouteWrongRoleGets403(t *testing.T) {
	router, _ := newTestRouter(authz.Middleware{
		Principals: &stubPrincipals{principals: map[string]authz.Principal{
			"u1": {ID: "u1", Role: authz.RoleUser},
		}},
		Resources: &stubResources{},
	})

	res := doRequest(router, http.MethodGet, "/admin", "u1")
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
}

func TestMiddlewareRoleRouteAdminAllowed(t *testing.T) {
	router, _ := newTestRouter(authz.Middleware{
		Principals: &stubPrincipals{principals: map[string]authz.Principal{
			"a1": {ID: "a1", Role: authz.RoleAdmin},
		}},
		Resources: &stubResources{},
	})

	res := doRequest(router, http.MethodGet, "/admin", "a1")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestMiddlewareRequireAuthenticated(t *testing.T) {
	router, _ := newTestRouter(authz.Middleware{
		Principals: &stubPrincipals{},
		Resources:  &stubResources{},
	})

	if res := doRequest(router, http.MethodGet, "/me", ""); res.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", res.Code)
	}
	if res := doRequest(router, http.MethodGet, "/me", "u1"); res.Code != http.StatusOK {
		t.Fatalf("authenticated: expected 200, got %d", res.Code)
	}
}

func TestMiddlewareOwnerRoute(t *testing.T) {
	router, _ := newTestRouter(authz.Middleware{
		Principals: &stubPrincipals{},
		Resources:  &stubResources{owners: map[string]string{"p1": "u1"}},
	})

	if res := doRequest(router, http.MethodDelete, "/posts/p1", "u1"); res.Code != http.StatusOK {
		t.Fatalf("owner: expected 200, got %d", res.Code)
	}
	if res := doRequest(router, http.MethodDelete, "/posts/p1", "u2"); res.Code != http.StatusForbidden {
		t.Fatalf("non-owner: expected 403, got %d", res.Code)
	}
	if res := doRequest(router, http.MethodDelete, "/posts/missing", "u1"); res.Code != http.StatusNotFound {
		t.Fatalf("missing resource: expected 404, got %d", res.Code)
	}
}

func TestMiddlewareRoleDenialSkipsResourceLookup(t *testing.T) {
	router, resources := newTestRouter(authz.Middleware{
		Principals: &stubPrincipals{principals: map[string]authz.Principal{
			"u1": {ID: "u1", Role: authz.RoleUser},
		}},
		Resources: &stubResources{owners: map[string]string{"p1": "u1"}},
	})

	res := doRequest(router, http.MethodPut, "/locked/p1", "u1")
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	if resources.calls != 0 {
		t.Fatalf("resource lookup ran %d times after role denial", resources.calls)
	}
}
