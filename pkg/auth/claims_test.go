package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaims_ResolvedEmail(t *testing.T) {
	tests := []struct {
		name   string
		claims *Claims
		want   string
	}{
		{"nil claims", nil, ""},
		{"top level", &Claims{Email: " ada@example.com "}, "ada@example.com"},
		{"user metadata fallback", &Claims{UserMetadata: UserMetadata{Email: "meta@example.com"}}, "meta@example.com"},
		{"top level wins", &Claims{Email: "top@example.com", UserMetadata: UserMetadata{Email: "meta@example.com"}}, "top@example.com"},
		{"blank top level falls back", &Claims{Email: "  ", UserMetadata: UserMetadata{Email: "meta@example.com"}}, "meta@example.com"},
		{"none", &Claims{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.ResolvedEmail())
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	token, ok = BearerToken("bearer  abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = BearerToken("Basic dXNlcjpwYXNz")
	assert.False(t, ok)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)

	_, ok = BearerToken("")
	assert.False(t, ok)
}
