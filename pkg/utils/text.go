package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanToValidUTF8 drops invalid UTF-8 sequences and NUL bytes so the text
// can be stored in a text column.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) && !strings.ContainsRune(s, 0) {
		return s
	}
	s = strings.ToValidUTF8(s, "")
	return strings.ReplaceAll(s, "\x00", "")
}

// SafeText collapses runs of whitespace into single spaces.
func SafeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContainsString reports whether list contains s.
func ContainsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
