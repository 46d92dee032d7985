// Package amount parses user-entered monetary strings into exact decimals.
//
// Input is tolerant of the formats people actually type into the sum
// column of a shipment table:
//   - thousands separated by spaces (regular, non-breaking or thin): "1 234 567,89"
//   - a decimal comma instead of a period: "1234,56"
//   - surrounding whitespace
//
// Parsing never panics. Malformed input is reported with ErrNotANumber so
// the caller can keep the last valid value instead of propagating garbage.
package amount

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits of a committed sum.
const Places = 2

var (
	// ErrNotANumber is returned when the input does not parse as a decimal.
	ErrNotANumber = errors.New("not a number")

	// ErrNegative is returned when the input parses to a negative amount.
	ErrNegative = errors.New("negative amount")
)

// Parse converts raw user input into a decimal without rounding.
func Parse(raw string) (decimal.Decimal, error) {
	const op = "amount.Parse"

	cleaned := clean(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%s: empty input: %w", op, ErrNotANumber)
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q: %w", op, raw, ErrNotANumber)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s: %q: %w", op, raw, ErrNegative)
	}

	return value, nil
}

// Normalize parses raw input and rounds it to the committed precision.
// ok is false when the input is not a usable amount.
func Normalize(raw string) (value decimal.Decimal, ok bool) {
	parsed, err := Parse(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return parsed.Round(Places), true
}

// Canonical renders a committed amount, e.g. "1234.56".
func Canonical(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// clean strips every whitespace rune and turns the first comma into a period.
func clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Replace(b.String(), ",", ".", 1)
}
