package amount

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseTerm reads a payment term in days from free text. Like a form field
// it accepts a leading integer followed by anything ("30 days" is 30).
// ok is false when the text does not start with an integer.
func ParseTerm(raw string) (days int, ok bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// out of int range
		return 0, false
	}
	return n, true
}
