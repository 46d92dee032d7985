package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAcceptsFormattedInput(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"1000", "1000.00"},
		{"1 234,56", "1234.56"},
		{"  1234.5 ", "1234.50"},
		{"1 234 567,891", "1234567.89"},
		{"12,345", "12.35"},
		{"0", "0.00"},
	}
	for _, tc := range cases {
		value, ok := Normalize(tc.in)
		require.True(t, ok, "Normalize(%q)", tc.in)
		assert.Equal(t, tc.expected, Canonical(value), "Normalize(%q)", tc.in)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12abc", "1,234,56", "--5"} {
		_, ok := Normalize(in)
		assert.False(t, ok, "Normalize(%q) should fail", in)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("abc")
	require.ErrorIs(t, err, ErrNotANumber)

	_, err = Parse("-10")
	require.ErrorIs(t, err, ErrNegative)
}

func TestParseTerm(t *testing.T) {
	cases := []struct {
		in   string
		days int
		ok   bool
	}{
		{"10", 10, true},
		{" 30 days", 30, true},
		{"45дн.", 45, true},
		{"-3", -3, true},
		{"", 0, false},
		{"days 10", 0, false},
		{"+", 0, false},
	}
	for _, tc := range cases {
		days, ok := ParseTerm(tc.in)
		assert.Equal(t, tc.ok, ok, "ParseTerm(%q)", tc.in)
		assert.Equal(t, tc.days, days, "ParseTerm(%q)", tc.in)
	}
}
