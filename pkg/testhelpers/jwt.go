// Package testhelpers provides utilities for testing dashboard gateway components.
package testhelpers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// GenerateTestJWT creates an unsigned test JWT (alg: none) carrying the given claims.
// The gateway only decodes tokens, so a valid structure is all that is needed.
func GenerateTestJWT(claims map[string]any) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	payload, err := json.Marshal(claims)
	if err != nil {
		panic(fmt.Sprintf("testhelpers: cannot encode claims: %v", err))
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	return fmt.Sprintf("%s.%s.", header, encodedPayload)
}

// GenerateEmailJWT returns a token whose top-level email claim is email.
func GenerateEmailJWT(sub, email string) string {
	return GenerateTestJWT(map[string]any{"sub": sub, "email": email})
}

// GenerateTestJWTWithBearer returns token with "Bearer " prefix for Authorization header.
func GenerateTestJWTWithBearer(sub, email string) string {
	return "Bearer " + GenerateEmailJWT(sub, email)
}
