package auth

import "context"

// Identity is the authenticated caller of a request. It is resolved once per
// request and travels in the request context.
type Identity struct {
	AccountID uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// WithIdentity stores the resolved identity in context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFromContext returns the identity resolved for this request.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(Identity)
	return id, ok && id.AccountID != 0
}
