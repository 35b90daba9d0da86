package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// TokenDecoder turns a raw bearer token into claims.
type TokenDecoder interface {
	Decode(tokenString string) (*Claims, error)
}

// UnverifiedDecoder parses tokens without checking signatures or expiry.
// The gateway does not authenticate; the token is only a source for the email claim.
type UnverifiedDecoder struct{}

// Decode parses tokenString without verification.
func (UnverifiedDecoder) Decode(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, _, err := parser.ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	return claims, nil
}

// JWKSDecoder verifies token signatures against the identity provider's JWKS.
type JWKSDecoder struct {
	jwks keyfunc.Keyfunc
}

// NewJWKSDecoder fetches the key set at jwksURL; keyfunc refreshes it in the background.
func NewJWKSDecoder(ctx context.Context, jwksURL string) (*JWKSDecoder, error) {
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client for %s: %w", jwksURL, err)
	}
	return &JWKSDecoder{jwks: jwks}, nil
}

// Decode verifies and parses tokenString.
func (d *JWKSDecoder) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		d.jwks.KeyfuncCtx(context.Background()),
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	return claims, nil
}

var (
	_ TokenDecoder = UnverifiedDecoder{}
	_ TokenDecoder = (*JWKSDecoder)(nil)
)
