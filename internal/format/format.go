// Package format renders dates and amounts for people: "11.01.2024" and
// "1 234 567,89".
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the display layout of a calendar date.
const DateLayout = "02.01.2006"

// Date renders date as DD.MM.YYYY, or "" when there is none.
func Date(date *time.Time) string {
	if date == nil || date.IsZero() {
		return ""
	}
	return date.Format(DateLayout)
}

// NumberWithSpaces rounds d to kopecks and groups the integer part by
// thousands with spaces, using a decimal comma.
func NumberWithSpaces(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return sign + groupThousands(intPart) + "," + fracPart
}

// Days renders an overdue-day count, blank when there is none.
func Days(days int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(days)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
