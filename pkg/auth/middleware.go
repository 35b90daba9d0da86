package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/audit"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/logging"
)

// Middleware decodes the bearer token of each request, if any, and stores its email in the context.
// It never rejects a request; resolving a missing identity is left to the handlers.
type Middleware struct {
	decoder TokenDecoder
	auditor *audit.SecurityAuditor
	logger  *zap.Logger
}

// NewMiddleware creates a token-decoding middleware. A nil decoder decodes without verification.
func NewMiddleware(decoder TokenDecoder, logger *zap.Logger) *Middleware {
	if decoder == nil {
		decoder = UnverifiedDecoder{}
	}
	return &Middleware{
		decoder: decoder,
		logger:  logger.Named("auth"),
	}
}

// WithAuditor records rejected tokens and ignored email overrides on auditor.
func (m *Middleware) WithAuditor(auditor *audit.SecurityAuditor) *Middleware {
	m.auditor = auditor
	return m
}

// Handler wraps next.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, err := m.decodeAuthorization(r.Header.Get("Authorization"))
		if err != nil {
			m.auditor.LogInvalidToken(logging.SanitizeError(err), r.RemoteAddr)
		}
		if email != "" {
			requested := strings.TrimSpace(r.URL.Query().Get("email"))
			if requested != "" && !strings.EqualFold(requested, email) {
				m.auditor.LogIdentityOverride(email, requested, r.RemoteAddr)
			}
			r = r.WithContext(WithEmail(r.Context(), email))
		}
		next.ServeHTTP(w, r)
	})
}

// EmailFromAuthorization returns the email carried by a "Bearer <jwt>" header value,
// or "" when the header is absent or the token cannot be decoded.
func (m *Middleware) EmailFromAuthorization(header string) string {
	email, _ := m.decodeAuthorization(header)
	return email
}

func (m *Middleware) decodeAuthorization(header string) (string, error) {
	token, ok := BearerToken(header)
	if !ok {
		return "", nil
	}

	claims, err := m.decoder.Decode(token)
	if err != nil {
		m.logger.Debug("Ignoring undecodable bearer token",
			zap.String("error", logging.SanitizeError(err)))
		return "", err
	}
	return claims.ResolvedEmail(), nil
}

// RequestEmail returns the caller's email: the token email when present,
// otherwise the explicit email query parameter.
func RequestEmail(r *http.Request) string {
	if email := EmailFromContext(r.Context()); email != "" {
		return email
	}
	return strings.TrimSpace(r.URL.Query().Get("email"))
}
