package lists

import "strings"

func StringListContains(list []string, value string, caseSensitive bool) bool {
	for _, v := range list {
		if caseSensitive && v == value {
			return true
		} else if !caseSensitive && strings.EqualFold(v, value) {
			return true
		}
	}

	return false
}

// StringListUnique returns the non-empty values of list in first-seen order.
func StringListUnique(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	unique := make([]string, 0, len(list))

	for _, v := range list {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	return unique
}
