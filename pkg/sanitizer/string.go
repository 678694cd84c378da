package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses any run of whitespace into
// a single space. Free-text fields go through this before validation so that
// a value of only blanks counts as empty.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}
