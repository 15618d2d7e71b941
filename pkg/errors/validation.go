package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateNodeName validates a station name.
//
// Names are identifiers in graph files and in DOT output, so the rules are
// conservative:
//   - No empty names
//   - No control characters
//   - No double quotes
//   - Maximum length of 256 characters
func ValidateNodeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidGraph, "node name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidGraph, "node name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node name contains invalid control characters")
		}
	}
	if strings.ContainsRune(name, '"') {
		return New(ErrCodeInvalidGraph, "node name contains invalid characters: %q", `"`)
	}
	return nil
}

// ValidateMargins checks that every clearance margin is finite and non-negative.
func ValidateMargins(route, edge, node float64) error {
	for _, m := range []struct {
		name  string
		value float64
	}{{"route", route}, {"edge", edge}, {"node", node}} {
		if math.IsNaN(m.value) || math.IsInf(m.value, 0) || m.value < 0 {
			return New(ErrCodeInvalidInput, "%s margin must be a non-negative number, got %v", m.name, m.value)
		}
	}
	return nil
}

// ValidateCorrectionFactor checks that f lies in (0, 1].
func ValidateCorrectionFactor(f float64) error {
	if math.IsNaN(f) || f <= 0 || f > 1 {
		return New(ErrCodeInvalidInput, "correction factor must be in (0, 1], got %v", f)
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed values.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
