package utils

import (
	"regexp"
	"strings"
)

var (
	enumInvalidChars = regexp.MustCompile(`[^a-z0-9_ -]+`)
	enumSeparators   = regexp.MustCompile(`[ -]+`)
	enumUnderscores  = regexp.MustCompile(`_+`)
)

// NormalizeEnum converts a console label into its stored enum key.
// e.g. "Allotted To Vendor" -> "allotted_to_vendor", "Partial-Paid" -> "partial_paid"
func NormalizeEnum(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = enumInvalidChars.ReplaceAllString(s, "")
	s = enumSeparators.ReplaceAllString(s, "_")
	s = enumUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// FirstNonEmpty returns the first argument that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
