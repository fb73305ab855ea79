// Package textx folds free text coming from forms and legacy rows into
// comparable keys: case, accents and separators are ignored.
package textx

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s, strips diacritics and collapses inner whitespace.
// "  São   Paulo " and "sao paulo" fold to the same value.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Key folds s and joins its words with underscores, dropping punctuation.
// "Análise de Currículo" becomes "analise_de_curriculo".
func Key(s string) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	sep := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	return b.String()
}

// Equal compares two strings after folding.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ContainsFold reports whether any element of list folds to the same value as s.
func ContainsFold(list []string, s string) bool {
	f := Fold(s)
	for _, item := range list {
		if Fold(item) == f {
			return true
		}
	}
	return false
}
