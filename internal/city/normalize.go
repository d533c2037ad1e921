// Package city holds the canonical city identity used for every data query,
// the selectable city list and the coarse coordinate-to-city table.
package city

import (
	"strings"
	"unicode"
)

// DefaultCity is the final fallback of location resolution.
const DefaultCity = "北京"

// adminSuffixes are trailing administrative markers stripped from display names.
var adminSuffixes = []string{"市", "区", "县"}

// Normalize turns a free-form place name into a city identity: all whitespace is
// removed and trailing administrative suffixes are stripped until none remain,
// so Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)

	for {
		trimmed := s
		for _, suf := range adminSuffixes {
			trimmed = strings.TrimSuffix(trimmed, suf)
		}
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}
