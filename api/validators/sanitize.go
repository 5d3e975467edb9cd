package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the value at maxLen
// bytes. Used for free-text query params such as order search terms.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		trimmed = trimmed[:maxLen]
	}
	return trimmed
}
