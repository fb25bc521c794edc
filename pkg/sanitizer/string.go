package sanitizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

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
		} else if unicode.IsControl(r) {
			continue
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName collapses whitespace in a guest name and drops control characters.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeNameForComparison is NormalizeName folded to lower case.
func NormalizeNameForComparison(name string) string {
	return strings.ToLower(NormalizeName(name))
}

// NormalizeRoomType turns "deluxe" or " DELUXE " into "Deluxe".
func NormalizeRoomType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(t)
	return string(unicode.ToUpper(first)) + strings.ToLower(t[size:])
}
