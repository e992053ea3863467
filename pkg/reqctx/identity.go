package reqctx

import "context"

// Identity is the logged-in demo user behind a request.
type Identity struct {
	Token    string
	Username string
	Role     string
	Name     string
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, keyIdentity, id)
}

// IdentityFromContext returns nil if the request is not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(keyIdentity).(*Identity)
	return id
}

// MustIdentity panics if no identity is present. Use only behind the
// session middleware.
func MustIdentity(ctx context.Context) *Identity {
	id := IdentityFromContext(ctx)
	if id == nil {
		panic("reqctx: identity not found in context")
	}
	return id
}

func IsAuthenticated(ctx context.Context) bool {
	return IdentityFromContext(ctx) != nil
}
