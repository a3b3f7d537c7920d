package strings

import "strings"

func StringLeftJust(text string, filler string, size int) string {
	repeatSize := size - len(text)
	if repeatSize < 1 {
		return text
	}

	return text + strings.Repeat(filler, repeatSize)
}
