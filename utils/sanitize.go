package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	sessionIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	unsafeUtteranceSet = "<>\";`"
)

// ValidSessionID reports whether id is safe to use as a store key.
func ValidSessionID(id string) bool {
	return len(id) <= 128 && sessionIDPattern.MatchString(id)
}

// SanitizeUtterance strips markup and quoting characters, trims whitespace and
// caps the text at MaxUtteranceRunes.
func SanitizeUtterance(text string) string {
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeUtteranceSet, r) {
			return -1
		}
		return r
	}, text)
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > MaxUtteranceRunes {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:MaxUtteranceRunes]))
	}
	return text
}
