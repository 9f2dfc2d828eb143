package stringutils

import "strings"

// EPTThen returns s, or def when s is empty.
func EPTThen(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func EqualFoldAny(s string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}
