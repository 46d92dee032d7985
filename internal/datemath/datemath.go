// Package datemath does day-granular calendar arithmetic.
//
// Every date handled here is a calendar date without time-of-day: it is
// represented as a time.Time at midnight UTC so that differences are always
// whole multiples of 24 hours regardless of the host's time zone.
package datemath

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the canonical wire and CLI layout of a date.
const ISOLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// ErrInvalidDate is returned when a string is not a recognised date.
var ErrInvalidDate = errors.New("invalid date")

// layouts accepted by Parse, tried in order.
var layouts = []string{
	ISOLayout,    // YYYY-MM-DD
	"02.01.2006", // DD.MM.YYYY
	"2.1.2006",   // D.M.YYYY
	"02.01.06",   // DD.MM.YY
	"02/01/2006", // DD/MM/YYYY
}

// Date builds a calendar date.
func Date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time-of-day and zone of t, keeping its calendar date as
// seen in t's own location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Today returns the current calendar date in the local time zone.
func Today() time.Time {
	return Truncate(time.Now())
}

// Parse reads a calendar date in one of the supported layouts.
func Parse(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string: %w", ErrInvalidDate)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date %q: %w", s, ErrInvalidDate)
}

// AddDays shifts date by n calendar days; n may be negative.
func AddDays(date time.Time, n int) time.Time {
	return Truncate(date).AddDate(0, 0, n)
}

// DaysOverdue counts whole days from paymentDate to evaluationDate.
// ok is false when there is no usable payment date; the result is then
// blank for display and contributes nothing to penalties. A payment date
// still in the future yields 0.
func DaysOverdue(paymentDate *time.Time, evaluationDate time.Time) (days int, ok bool) {
	if paymentDate == nil || paymentDate.IsZero() {
		return 0, false
	}

	// Unix seconds: time.Duration saturates after about 292 years
	diff := Truncate(evaluationDate).Unix() - Truncate(*paymentDate).Unix()
	days = int(diff / secondsPerDay)
	if days < 0 {
		return 0, true
	}
	return days, true
}

// Format renders a date in ISOLayout, or "" for nil.
func Format(date *time.Time) string {
	if date == nil {
		return ""
	}
	return date.Format(ISOLayout)
}
