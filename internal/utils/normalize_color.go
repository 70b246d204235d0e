package utils

import (
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#?([0-9A-F]{3}|[0-9A-F]{6})$`)

// NormalizeColor brings a hex color to the #RRGGBB upper-case form.
// Anything that is not a hex color becomes "".
func NormalizeColor(raw string) string {
	normalized := strings.TrimSpace(raw)
	normalized = strings.ToUpper(normalized)
	m := hexColor.FindStringSubmatch(normalized)
	if m == nil {
		return ""
	}
	digits := m[1]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	return "#" + digits
}
