// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events in structured JSON format for easy parsing
// and integration with security information and event management systems.
package audit

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventInvalidToken is logged when a bearer token is present but cannot be decoded.
	EventInvalidToken SecurityEventType = "invalid_token"
	// EventIdentityOverride is logged when a request names an email that differs from its token email.
	// The token email wins; the event records the attempt.
	EventIdentityOverride SecurityEventType = "identity_override_ignored"
	// EventCacheCleared is logged for every cache invalidation request.
	EventCacheCleared SecurityEventType = "cache_cleared"
)

// SecurityEvent represents an auditable security event with all relevant context
// for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	Actor     string            `json:"actor,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SecurityAuditor logs security events for SIEM consumption.
// A nil *SecurityAuditor is valid and logs nothing.
type SecurityAuditor struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewSecurityAuditor creates a new security auditor with a dedicated logger namespace
// ("security_audit") for easy filtering in SIEM systems.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{
		logger: logger.Named("security_audit"),
		now:    time.Now,
	}
}

// LogInvalidToken records a bearer token that failed to decode or verify.
func (a *SecurityAuditor) LogInvalidToken(reason, clientIP string) {
	if a == nil {
		return
	}
	a.log(zap.WarnLevel, "Invalid bearer token", SecurityEvent{
		EventType: EventInvalidToken,
		ClientIP:  clientIP,
		Details:   map[string]string{"reason": reason},
		Severity:  "warning",
	})
}

// LogIdentityOverride records a request whose email parameter contradicts its token.
func (a *SecurityAuditor) LogIdentityOverride(tokenEmail, requestedEmail, clientIP string) {
	if a == nil {
		return
	}
	a.log(zap.WarnLevel, "Ignored email parameter contradicting token", SecurityEvent{
		EventType: EventIdentityOverride,
		Actor:     tokenEmail,
		ClientIP:  clientIP,
		Details:   map[string]string{"requested_email": requestedEmail},
		Severity:  "warning",
	})
}

// LogCacheClear records a cache invalidation. actor is the token email, if any.
func (a *SecurityAuditor) LogCacheClear(actor, targetEmail string, cleared map[string]bool, clientIP string) {
	if a == nil {
		return
	}
	a.log(zap.InfoLevel, "Cache cleared", SecurityEvent{
		EventType: EventCacheCleared,
		Actor:     actor,
		ClientIP:  clientIP,
		Details: map[string]any{
			"email":   targetEmail,
			"cleared": cleared,
		},
		Severity: "info",
	})
}

func (a *SecurityAuditor) log(level zapcore.Level, msg string, event SecurityEvent) {
	event.Timestamp = a.now().UTC()

	// Ignoring error as marshaling known types should never fail
	eventJSON, _ := json.Marshal(event)

	if ce := a.logger.Check(level, msg); ce != nil {
		ce.Write(
			zap.String("event_json", string(eventJSON)),
			zap.String("event_type", string(event.EventType)),
			zap.String("actor", event.Actor),
			zap.String("client_ip", event.ClientIP),
			zap.String("severity", event.Severity),
		)
	}
}
