package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	turkishLower = cases.Lower(language.Turkish)
	turkishTitle = cases.Title(language.Turkish)
)

var asciiFold = strings.NewReplacer(
	"ı", "i", "ş", "s", "ğ", "g", "ü", "u", "ö", "o", "ç", "c",
	"â", "a", "î", "i", "û", "u",
)

// fold lowercases s with Turkish rules and strips diacritics, so "İSTANBUL",
// "istanbul" and "Istanbul" compare equal.
func fold(s string) string {
	return asciiFold.Replace(turkishLower.String(strings.TrimSpace(s)))
}

// titleCase collapses whitespace and title-cases every word.
func titleCase(s string) string {
	return turkishTitle.String(strings.Join(strings.Fields(s), " "))
}

// words splits text into runs of letters, remembering their order.
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
