// Package session exposes the current principal to the services. It is the
// only coupling between the auth collaborator and the core: services receive
// a Provider at construction and never reach for a global.
package session

import "context"

// GuestID is the pseudo-principal substituted on read paths when nobody is
// signed in. It exists only so favorite-state comparisons have something to
// compare against; it never authorizes a mutation.
const GuestID = "guest"

// Provider reports the currently authenticated principal, if any.
type Provider interface {
	CurrentPrincipalID(ctx context.Context) (string, bool)
}

type ctxKey struct{}

// WithPrincipal returns a context carrying the principal id. The auth
// middleware calls this after validating a token.
func WithPrincipal(ctx context.Context, principalID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, principalID)
}

// FromContext is a Provider that reads the principal placed on the request
// context by the auth middleware.
type FromContext struct{}

func (FromContext) CurrentPrincipalID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Static is a fixed-principal Provider for tests. An empty id behaves as
// signed out.
type Static string

func (s Static) CurrentPrincipalID(context.Context) (string, bool) {
	return string(s), s != ""
}

// PrincipalOrGuest returns the active principal id, or GuestID when none is
// present. Display-only helper; mutating paths must check the bool form.
func PrincipalOrGuest(ctx context.Context, p Provider) string {
	if id, ok := p.CurrentPrincipalID(ctx); ok {
		return id
	}
	return GuestID
}
