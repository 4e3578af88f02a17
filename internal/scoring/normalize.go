// Package scoring grades quiz submissions. It holds the Arabic text
// normalizer, the fuzzy matcher used for free-text answers, and the
// per-type comparison dispatch.
package scoring

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const definiteArticle = "ال"

// tashkil marks (fathatan through wavy hamza below) plus the superscript alef.
var diacritics = runes.Predicate(func(r rune) bool {
	return (r >= '\u064B' && r <= '\u065F') || r == '\u0670'
})

func foldLetter(r rune) rune {
	switch r {
	case 'أ', 'إ', 'آ', '\u0671':
		return 'ا'
	case 'ة':
		return 'ه'
	case 'ى':
		return 'ي'
	}
	return r
}

// Normalize canonicalizes Arabic free text: diacritics are dropped,
// whitespace collapsed, alef/ta marbuta/alef maqsura variants folded, the
// leading definite article removed and Latin letters lowercased.
//
// The article is stripped until none remains at the start, so Normalize is
// idempotent.
func Normalize(text string) string {
	s, _, err := transform.String(runes.Remove(diacritics), text)
	if err != nil {
		s = text
	}
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Map(foldLetter, s)
	for strings.HasPrefix(s, definiteArticle) {
		s = strings.TrimSpace(strings.TrimPrefix(s, definiteArticle))
	}
	// Casers carry state; one per call keeps Normalize safe for concurrent use.
	s = cases.Lower(language.Und).String(s)
	return strings.TrimSpace(s)
}
