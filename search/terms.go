package search

import (
	"regexp"
	"strings"
)

const (
	MaxSearchLength = 200
	MaxSearchTerms  = 10
)

var termSeparator = regexp.MustCompile(`[\s\-_]+`)

// ParseSearchTerms splits a search string into at most MaxSearchTerms terms. Input longer
// than MaxSearchLength runes is truncated before splitting.
func ParseSearchTerms(s string) []string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxSearchLength {
		s = string(r[:MaxSearchLength])
	}

	terms := make([]string, 0)
	for _, t := range termSeparator.Split(s, -1) {
		if t == "" {
			continue
		}

		terms = append(terms, t)
		if len(terms) == MaxSearchTerms {
			break
		}
	}

	return terms
}
