package penalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSelectors(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		selector string
		kind     RuleKind
		daily    string
	}{
		{RateFixed015, RuleFixed, "0.0015"},
		{RateFixed010, RuleFixed, "0.001"},
		{"0,15%", RuleFixed, "0.0015"},
		{" 0,2 % ", RuleFixed, "0.002"},
		{RateStatutory395, RuleStatutory, ""},
		{"ст.395ГК", RuleStatutory, ""},
	}
	for _, tc := range cases {
		rule, ok := policy.Resolve(tc.selector)
		require.True(t, ok, tc.selector)
		assert.Equal(t, tc.kind, rule.Kind, tc.selector)
		if tc.kind == RuleFixed {
			assert.True(t, rule.DailyFraction.Equal(decimal.RequireFromString(tc.daily)),
				"%s: got %s", tc.selector, rule.DailyFraction)
		}
	}
}

func TestUnknownSelectorAccruesNothing(t *testing.T) {
	policy := DefaultPolicy()
	sum := decimal.NewFromInt(1000)

	for _, selector := range []string{"", "statutory-396", " statutory-395", "Statutory-395", "fifteen", "-0.15%", "%"} {
		_, ok := policy.Resolve(selector)
		assert.False(t, ok, selector)
		assert.True(t, policy.Compute(selector, 30, sum).IsZero(), selector)
	}
}

func TestFixedRateIsSimpleDailyInterest(t *testing.T) {
	penalty := DefaultPolicy().Compute(RateFixed015, 30, decimal.NewFromInt(1000))
	assert.Equal(t, "45.00", penalty.StringFixed(2))

	penalty = DefaultPolicy().Compute(RateFixed010, 60, decimal.RequireFromString("2500.50"))
	assert.Equal(t, "150.03", penalty.StringFixed(2))
}

func TestStatutoryRate(t *testing.T) {
	penalty := DefaultPolicy().Compute(RateStatutory395, 30, decimal.NewFromInt(1000))
	assert.Equal(t, "15.62", penalty.StringFixed(2))

	custom := Policy{AnnualRatePercent: decimal.NewFromInt(16), DaysInYear: 366}
	penalty = custom.Compute(RateStatutory395, 366, decimal.NewFromInt(1000))
	assert.Equal(t, "160.00", penalty.StringFixed(2))
}

func TestComputeMissingInputs(t *testing.T) {
	policy := DefaultPolicy()
	assert.True(t, policy.Compute(RateFixed015, 0, decimal.NewFromInt(1000)).IsZero())
	assert.True(t, policy.Compute(RateFixed015, 30, decimal.Zero).IsZero())

	broken := Policy{AnnualRatePercent: decimal.NewFromInt(19)}
	assert.True(t, broken.Compute(RateStatutory395, 30, decimal.NewFromInt(1000)).IsZero())
}
