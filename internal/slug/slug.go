// Package slug turns human-readable names into URL and filename safe identifiers.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallbacks used when a name normalizes to nothing.
const (
	FallbackScreen = "page"
	FallbackRoute  = "pagina"
)

// Make lowercases s, strips diacritics and keeps only [a-z0-9] words joined by
// single hyphens. An empty result yields fallback.
func Make(s, fallback string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range removeAccents(s) {
		r = unicode.ToLower(r)
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || r == '_' || unicode.IsSpace(r):
			pendingSep = true
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
