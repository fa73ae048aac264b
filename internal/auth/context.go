package auth

import "context"

// Identity is the authenticated caller as seen by the domain services. The
// services never authenticate; they trust whatever the request layer attached.
type Identity struct {
	ID   string
	Name string
	Role string
}

type ctxKey struct{}

var ctxKeyIdentity = ctxKey{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return v, ok
}
