package filter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var reParenthetical = regexp.MustCompile(`\s*\([^)]*\)`)

// Normalize trims and lower-cases a value. Every filter compares through it.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeText is the looser form used by option search boxes and category
// names: it also drops parenthetical qualifiers, strips accents and collapses
// whitespace, so "Crème fraîche (épaisse)" and "creme fraiche" compare equal.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	if strings.Contains(s, "(") {
		s = reParenthetical.ReplaceAllString(s, "")
	}
	s = foldAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

// Capitalize upper-cases the first letter and lower-cases the rest, keeping
// accents. Used for option labels; Normalize(Capitalize(s)) == Normalize(s).
func Capitalize(s string) string {
	s = Normalize(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func foldAccents(s string) string {
	if isASCII(s) {
		return s
	}
	// transform.Chain keeps state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
