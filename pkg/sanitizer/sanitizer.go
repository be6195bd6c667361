// Package sanitizer normalizes the loose values that arrive on the wire
// before they reach validation or persistence.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizePNR upper-cases the passenger name record so lookups and the
// uniqueness check are case-insensitive.
func NormalizePNR(pnr string) string {
	return strings.ToUpper(TrimAndNormalize(pnr))
}

// NormalizePaxName upper-cases the passenger name, matching how it is
// stored and searched.
func NormalizePaxName(name string) string {
	return strings.ToUpper(TrimAndNormalize(name))
}

// CapitalizeRoute upper-cases the first letter of a from/to city.
func CapitalizeRoute(city string) string {
	city = TrimAndNormalize(city)
	if city == "" {
		return ""
	}
	r := []rune(city)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
