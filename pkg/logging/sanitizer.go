// Package logging holds helpers that keep secrets out of log lines.
package logging

import (
	"net/url"
	"regexp"
)

const (
	// MaxBodyLogLength is the maximum length of a provider response body to log
	MaxBodyLogLength = 200
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match potential passwords in connection strings
	// Matches: password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Pattern to match JWT tokens (three base64 segments separated by dots)
	jwtPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]*`)

	// Pattern to match the provider key query parameter and similar api keys, whatever their length
	apiKeyPattern = regexp.MustCompile(`(?i)\b(api[_-]?key|apikey|key)=[^&\s"']+`)

	// Pattern to match connection string credentials (user:pass@host format)
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)
)

// SanitizeURL redacts the key query parameter of a provider URL.
// Unparseable input falls back to pattern redaction.
func SanitizeURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return apiKeyPattern.ReplaceAllString(raw, "${1}="+RedactedText)
	}

	q := u.Query()
	changed := false
	for name := range q {
		if isKeyParam(name) {
			q.Set(name, RedactedText)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	if u.User != nil {
		u.User = url.User(RedactedText)
	}
	return u.String()
}

func isKeyParam(name string) bool {
	switch name {
	case "key", "api_key", "apikey", "api-key":
		return true
	}
	return false
}

// SanitizeError sanitizes error messages that might contain sensitive data.
// net/http errors embed the request URL, key included.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeText(err.Error())
}

// SanitizeText applies every redaction pattern to free text.
func SanitizeText(s string) string {
	sanitized := passwordPattern.ReplaceAllString(s, "${1}="+RedactedText)
	sanitized = jwtPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
