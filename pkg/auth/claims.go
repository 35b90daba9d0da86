// Package auth extracts the caller's email from the identity provider's bearer token.
// Tokens are decoded best-effort; signature verification against a JWKS endpoint is optional.
package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of identity provider claims the gateway reads.
// The email is top-level on most tokens and under user_metadata on some.
type Claims struct {
	jwt.RegisteredClaims
	Email        string       `json:"email,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata,omitempty"`
}

// UserMetadata holds profile fields set at sign-up.
type UserMetadata struct {
	Email string `json:"email,omitempty"`
}

// ResolvedEmail returns the top-level email claim, then user_metadata.email, trimmed.
func (c *Claims) ResolvedEmail() string {
	if c == nil {
		return ""
	}
	if email := strings.TrimSpace(c.Email); email != "" {
		return email
	}
	return strings.TrimSpace(c.UserMetadata.Email)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
