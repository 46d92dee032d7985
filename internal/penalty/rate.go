package penalty

import (
	"strings"

	"github.com/shopspring/decimal"

	"penalty/internal/amount"
)

// Rate selectors offered by the worksheet.
const (
	RateFixed015     = "0.15%"
	RateFixed010     = "0.10%"
	RateStatutory395 = "statutory-395"

	// statutoryAlias is the label the selector carried on the paper form
	// (art. 395 of the Civil Code).
	statutoryAlias = "ст.395ГК"
)

// Selectors lists the rate selectors in the order they are offered.
var Selectors = []string{RateFixed015, RateFixed010, RateStatutory395}

var hundred = decimal.NewFromInt(100)

// RuleKind tells how a Rule accrues.
type RuleKind int

const (
	// RuleFixed accrues a fixed percentage of the principal per overdue day.
	RuleFixed RuleKind = iota + 1
	// RuleStatutory accrues an annual rate spread evenly over the days of a year.
	RuleStatutory
)

// Rule is a resolved per-day penalty computation.
type Rule struct {
	Kind RuleKind

	// DailyFraction is the share of the principal accrued per day for RuleFixed.
	DailyFraction decimal.Decimal

	// AnnualFraction and DaysInYear drive RuleStatutory.
	AnnualFraction decimal.Decimal
	DaysInYear     int
}

// Compute returns the simple (non-compounding) penalty for sum over days.
func (r Rule) Compute(sum decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || sum.Sign() <= 0 {
		return decimal.Zero
	}
	d := decimal.NewFromInt(int64(days))

	switch r.Kind {
	case RuleFixed:
		return sum.Mul(d).Mul(r.DailyFraction)
	case RuleStatutory:
		if r.DaysInYear <= 0 {
			return decimal.Zero
		}
		return sum.Mul(r.AnnualFraction).Mul(d).Div(decimal.NewFromInt(int64(r.DaysInYear)))
	default:
		return decimal.Zero
	}
}

// Policy holds the parameters of the statutory rate. Fixed rates are carried
// by the selector itself.
type Policy struct {
	// AnnualRatePercent is the statutory annual rate, e.g. 19 for 19%.
	AnnualRatePercent decimal.Decimal
	DaysInYear        int
}

// DefaultPolicy is 19% per annum over a 365-day year.
func DefaultPolicy() Policy {
	return Policy{
		AnnualRatePercent: decimal.NewFromInt(19),
		DaysInYear:        365,
	}
}

// IsStatutory reports whether selector picks the statutory rate.
func IsStatutory(selector string) bool {
	return selector == RateStatutory395 || selector == statutoryAlias
}

// Resolve turns a selector into a Rule. ok is false for selectors that are
// neither the statutory one nor a readable percentage such as "0.15%" or
// "0,1 %"; such selectors accrue nothing.
func (p Policy) Resolve(selector string) (Rule, bool) {
	if IsStatutory(selector) {
		return Rule{
			Kind:           RuleStatutory,
			AnnualFraction: p.AnnualRatePercent.Div(hundred),
			DaysInYear:     p.DaysInYear,
		}, true
	}

	percent, err := amount.Parse(strings.TrimSuffix(strings.TrimSpace(selector), "%"))
	if err != nil {
		return Rule{}, false
	}

	return Rule{
		Kind:          RuleFixed,
		DailyFraction: percent.Div(hundred),
	}, true
}

// Compute is the penalty for sum over days under selector, or zero when the
// selector cannot be resolved.
func (p Policy) Compute(selector string, days int, sum decimal.Decimal) decimal.Decimal {
	rule, ok := p.Resolve(selector)
	if !ok {
		return decimal.Zero
	}
	return rule.Compute(sum, days)
}
