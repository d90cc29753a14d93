package facematch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldName strips diacritics and lowercases, e.g. "Jiří Novák" -> "jiri novak".
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// NormalizeName folds a person name for comparison and collapses
// whitespace, dashes and underscores into single spaces.
func NormalizeName(name string) string {
	fields := strings.FieldsFunc(foldName(name), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	return strings.Join(fields, " ")
}

// NameContains reports whether the normalized name contains the normalized query.
// An empty query matches every name.
func NameContains(name, query string) bool {
	return strings.Contains(NormalizeName(name), NormalizeName(query))
}
