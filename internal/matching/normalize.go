package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize turns a free-text substance name into a table key:
// NFKC, case-folded, every rune other than an ASCII letter, digit or Han
// ideograph replaced by '_', runs of '_' collapsed and trimmed.
//
// "Steel (Primary)" and "ＳＴＥＥＬ primary" both become "steel_primary".
func Normalize(name string) string {
	// cases.Caser is stateful; one per call.
	folded := cases.Fold().String(norm.NFKC.String(name))

	var b strings.Builder
	b.Grow(len(folded))
	lastUnderscore := true
	for _, r := range folded {
		if isKeyRune(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}

func isKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	default:
		return unicode.Is(unicode.Han, r)
	}
}
