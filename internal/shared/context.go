package shared

import "context"

type principalContextKey struct{}

// ContextWithPrincipalID stores the authenticated principal id in context.
func ContextWithPrincipalID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, principalContextKey{}, id)
}

// PrincipalIDFromContext extracts the authenticated principal id from
// context. The empty string means the request is anonymous.
func PrincipalIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(principalContextKey{}).(string)
	return id
}
