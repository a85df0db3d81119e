package domain

import "context"

// ContextKey is a type for context keys to avoid magic strings
type ContextKey string

const (
	// ContextKeySubject is the key for the token subject in the context
	ContextKeySubject ContextKey = "sub"
	// ContextKeyClaims is the key for the decoded token claims in the context
	ContextKeyClaims ContextKey = "claims"
)

// WithClaims adds the decoded claims and their subject to the context
func WithClaims(ctx context.Context, claims Claims) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClaims, claims)
	return context.WithValue(ctx, ContextKeySubject, claims.Subject)
}

// GetClaims retrieves the decoded claims from the context
func GetClaims(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(Claims)
	return claims, ok
}

// GetSubject retrieves the token subject from the context
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(ContextKeySubject).(string)
	return subject, ok
}
