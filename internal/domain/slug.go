package domain

import (
	"strings"
	"unicode"
)

// Slugify converts a name into a URL-safe slug: lowercase, non-alphanumerics
// collapsed into single hyphens, trimmed of leading/trailing hyphens.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	prevHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
