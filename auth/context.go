// Package auth provides request context helpers for verified Clerk session claims.
package auth

import (
	"context"
	"time"
)

type ctxKey int

const claimsKey ctxKey = iota

// Claims contains the verified session token details we care about.
type Claims struct {
	Subject         string
	Issuer          string
	Audience        []string
	ExpiresAt       time.Time
	SessionID       string
	AuthorizedParty string
	Raw             map[string]any
}

// WithClaims stores auth claims in a context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns claims from a context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// ResolveUserID returns the verified subject when the request carried a valid
// token, and the caller-supplied id otherwise.
func ResolveUserID(ctx context.Context, supplied string) string {
	if claims, ok := ClaimsFromContext(ctx); ok && claims.Subject != "" {
		return claims.Subject
	}
	return supplied
}
