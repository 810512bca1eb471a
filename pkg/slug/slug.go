package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name. Diacritics are
// folded to their ASCII base characters via Unicode decomposition, so the
// same rules cover every catalog language.
//
// Examples:
//   - "Gafas de Sol" → "gafas-de-sol"
//   - "Montura Clásica" → "montura-clasica"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	// Decompose and drop combining marks ("clasica" keeps its base runes).
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	// Replace any remaining non-alphanumeric runs with single hyphens.
	s = slugRegexp.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
