package utils

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, drops every rune that is not a letter, digit or
// whitespace, collapses whitespace runs to one space and trims the ends.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lower))
	pendingSpace := false

	for _, r := range lower {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}

	return b.String()
}

// ContainsPhrase reports whether phrase occurs in text on word boundaries.
// Both arguments are expected in normalized form.
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" || text == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

// Tokens splits normalized text into words
func Tokens(text string) []string {
	return strings.Fields(text)
}
