package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Clean trims s, collapses every run of Unicode whitespace to a single
// space, drops non-printable runes and returns the result in NFC form.
//
// Outline entries and titles are always passed through Clean; the raw line
// text is kept for de-duplication.
func Clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")

	s = strings.Map(func(r rune) rune {
		if r == ' ' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)

	return norm.NFC.String(s)
}

// Truncate returns the first n runes of s followed by marker. The marker is
// appended even when s is shorter than n.
func Truncate(s string, n int, marker string) string {
	if n < 0 {
		n = 0
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i] + marker
		}
		count++
	}
	return s + marker
}
