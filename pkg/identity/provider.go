package identity

import (
	"context"
	"net/http"
)

// Provider resolves the current principal for a request. Implementations
// wrap whatever session or token mechanism the host platform uses.
type Provider interface {
	// CurrentPrincipal returns the authenticated principal, or nil when the
	// request is anonymous.
	CurrentPrincipal(ctx context.Context) *Principal
}

// contextKey is the type for identity context keys
type contextKey string

const principalKey contextKey = "siteward_principal"

// WithPrincipal adds a principal to the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the principal from context, or nil
func PrincipalFromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok {
		return nil
	}
	return p
}

// ContextProvider is a Provider that reads the principal previously stored
// on the request context by authentication middleware.
type ContextProvider struct{}

// CurrentPrincipal returns the principal attached to the context, if any.
func (ContextProvider) CurrentPrincipal(ctx context.Context) *Principal {
	return PrincipalFromContext(ctx)
}

// StaticProvider is a Provider that always returns the same principal.
// Intended for tests and CLI tooling.
type StaticProvider struct {
	Principal *Principal
}

// CurrentPrincipal returns the fixed principal.
func (s StaticProvider) CurrentPrincipal(ctx context.Context) *Principal {
	return s.Principal
}

// Middleware attaches the principal resolved by the given function to the
// request context. The resolver receives the raw request so hosts can read
// session cookies or bearer tokens however they like.
func Middleware(resolve func(*http.Request) *Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p := resolve(r); p != nil {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}
