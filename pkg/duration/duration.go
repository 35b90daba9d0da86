// Package duration converts the provider's heterogeneous duration values into fractional hours.
//
// The provider reports presence time as "H:MM", "H:MM:SS", decimal strings using either "." or ","
// as separator, or plain JSON numbers. Every parser here fails soft and returns 0 on bad input.
package duration

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{1,2}))?(?::(\d{1,2}))?$`)

// ParseHours converts raw into hours.
// Numbers are returned as-is, clock strings become H + MM/60 + SS/3600,
// and decimal strings are parsed with "," accepted as separator.
func ParseHours(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return finiteOrZero(v)
	case float32:
		return finiteOrZero(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseHoursString(v)
	default:
		return 0
	}
}

func parseHoursString(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}

	if m := clockPattern.FindStringSubmatch(trimmed); m != nil {
		h := atoiOrZero(m[1])
		mi := atoiOrZero(m[2])
		sec := atoiOrZero(m[3])
		return float64(h) + float64(mi)/60 + float64(sec)/3600
	}

	return ParseDecimalHours(trimmed)
}

// ParseDecimalHours parses a decimal hour count, tolerating a comma decimal separator.
// Unlike ParseHours it does not interpret clock notation.
func ParseDecimalHours(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return finiteOrZero(v)
	case int:
		return float64(v)
	case string:
		normalized := strings.Replace(strings.TrimSpace(v), ",", ".", 1)
		return parseLeadingFloat(normalized)
	default:
		return 0
	}
}

// ParseSecondsToHours divides a seconds count (number or numeric string) by 3600.
func ParseSecondsToHours(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return finiteOrZero(v) / 3600
	case int:
		return float64(v) / 3600
	case int64:
		return float64(v) / 3600
	case string:
		n, err := strconv.ParseInt(leadingInteger(strings.TrimSpace(v)), 10, 64)
		if err != nil {
			return 0
		}
		return float64(n) / 3600
	default:
		return 0
	}
}

// parseLeadingFloat reads the longest numeric prefix of s, so "7.5h" yields 7.5.
func parseLeadingFloat(s string) float64 {
	end := 0
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			return parsePrefix(s[:end])
		}
	}
	return parsePrefix(s[:end])
}

func parsePrefix(s string) float64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(n)
}

func leadingInteger(s string) string {
	end := 0
	for i, r := range s {
		if r >= '0' && r <= '9' {
			end = i + 1
			continue
		}
		if (r == '-' || r == '+') && i == 0 {
			continue
		}
		break
	}
	return s[:end]
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
