package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	lower      = cases.Lower(language.Und)
	nameRemove = strings.NewReplacer("(", "", ")", "", "/", "", "\\", "", ".", "")
)

// FilenameSafe turns a page title into a file name fragment: accents are
// folded, the result is lowercased, spaces become underscores and the
// characters ( ) / \ . are dropped.
func FilenameSafe(name string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, name)
	if err != nil {
		folded = name
	}
	s := lower.String(folded)
	s = strings.ReplaceAll(s, " ", "_")
	return nameRemove.Replace(s)
}
