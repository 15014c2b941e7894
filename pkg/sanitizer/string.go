package sanitizer

import (
	"strings"
	"unicode"
)

const MaxSearchQueryLength = 100

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
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		result.WriteRune(r)
		lastWasSpace = false
	}

	return strings.TrimSpace(result.String())
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeDescription(description string) string {
	return TrimAndNormalize(description)
}

func NormalizeLocation(location string) string {
	return TrimAndNormalize(location)
}

// NormalizeSearchQuery prepares user input for a literal substring match.
func NormalizeSearchQuery(query string) string {
	p := Pipeline{
		TrimAndNormalize,
		func(s string) string { return truncateRunes(s, MaxSearchQueryLength) },
	}
	return p.Apply(query)
}
