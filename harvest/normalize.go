package harvest

import (
	"regexp"
	"strings"
)

var commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

// NormalizeSVG strips comments and swaps double quotes for single quotes.
func NormalizeSVG(raw string) string {
	s := commentPattern.ReplaceAllString(raw, "")
	s = strings.ReplaceAll(s, `"`, `'`)
	return strings.TrimSpace(s)
}

// camelCase turns stroke-width into strokeWidth.
func camelCase(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) == 1 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(parts[0])

	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}

	return b.String()
}
