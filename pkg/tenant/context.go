package tenant

import "context"

type contextKey struct{}

// WithContext returns a context carrying the authenticated tenant. Only the
// HTTP middleware writes this; services receive the tenant ID as an explicit
// parameter instead of reading request-global state.
func WithContext(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext extracts the authenticated tenant, if any.
func FromContext(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(contextKey{}).(Tenant)
	return t, ok
}
