// Package auth establishes caller identity: bearer token issue and
// verification, password hashing, and the request-scoped principal.
package auth

import "context"

// Principal captures the identity carried by a request's bearer token.
type Principal struct {
	// UserID references the users row the token was issued for. The row may
	// have been deleted since issuance; resolvers re-check on every request.
	UserID string
}

type principalContextKey struct{}

// WithPrincipal stores the authenticated principal on the context for
// downstream consumers.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFrom retrieves the authenticated principal from the context.
// ok is false for anonymous requests.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
