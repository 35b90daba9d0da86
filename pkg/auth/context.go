package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// EmailKey is the context key for the email decoded from the bearer token.
const EmailKey contextKey = "email"

// WithEmail stores the token email in ctx.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, EmailKey, email)
}

// EmailFromContext returns the token email set by the middleware, or "".
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}
