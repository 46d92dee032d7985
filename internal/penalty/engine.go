// Package penalty computes contractual late-payment penalties over a table
// of shipment rows.
//
// The engine is a set of pure functions of its inputs: nothing is cached,
// so every call reflects the rows and terms it is given. Bad inputs never
// abort a calculation; a row without a payment date or an unknown rate
// selector contributes zero.
package penalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"penalty/internal/datemath"
	"penalty/pkg/models"
)

var surchargeDivisor = decimal.NewFromInt(10)

// Terms are the worksheet-wide inputs of a calculation.
type Terms struct {
	EvaluationDate time.Time
	RateSelector   string
	IncreaseSum    bool
}

// Line is the derived view of one row.
type Line struct {
	RowID       uuid.UUID
	OverdueDays int  // Valid only when HasDays
	HasDays     bool // False when the row has no payment date
	Penalty     decimal.Decimal
	IncreaseSum decimal.Decimal // 10% surcharge, zero unless enabled
}

// Totals are the aggregates reported for the whole worksheet.
type Totals struct {
	Debt        decimal.Decimal
	Penalty     decimal.Decimal
	IncreaseSum decimal.Decimal
}

// Engine evaluates rows under a rate policy.
type Engine struct {
	policy Policy
}

// NewEngine creates an engine for policy.
func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Policy returns the rate policy the engine was built with.
func (e *Engine) Policy() Policy {
	return e.policy
}

// ComputeRowPenalty is the penalty accrued by row at evaluationDate.
func (e *Engine) ComputeRowPenalty(row models.ShipmentRow, evaluationDate time.Time, rateSelector string) decimal.Decimal {
	days, ok := datemath.DaysOverdue(row.PaymentDate, evaluationDate)
	if !ok {
		return decimal.Zero
	}
	return e.policy.Compute(rateSelector, days, row.Sum)
}

// TotalDebt sums the principal of every row.
func (e *Engine) TotalDebt(rows []models.ShipmentRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Sum)
	}
	return total
}

// TotalPenalty sums ComputeRowPenalty over rows.
func (e *Engine) TotalPenalty(rows []models.ShipmentRow, evaluationDate time.Time, rateSelector string) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(e.ComputeRowPenalty(row, evaluationDate, rateSelector))
	}
	return total
}

// TotalIncreaseSum is the flat 10% surcharge over all principals, or zero
// when the surcharge is disabled. Overdue status does not matter.
func (e *Engine) TotalIncreaseSum(rows []models.ShipmentRow, enabled bool) decimal.Decimal {
	total := decimal.Zero
	if !enabled {
		return total
	}
	for _, row := range rows {
		total = total.Add(increaseFor(row))
	}
	return total
}

// Line derives the per-row view of row.
func (e *Engine) Line(row models.ShipmentRow, terms Terms) Line {
	line := Line{
		RowID:       row.ID,
		Penalty:     decimal.Zero,
		IncreaseSum: decimal.Zero,
	}

	line.OverdueDays, line.HasDays = datemath.DaysOverdue(row.PaymentDate, terms.EvaluationDate)
	if line.HasDays {
		line.Penalty = e.policy.Compute(terms.RateSelector, line.OverdueDays, row.Sum)
	}
	if terms.IncreaseSum {
		line.IncreaseSum = increaseFor(row)
	}

	return line
}

// Lines derives the per-row view of every row, in order.
func (e *Engine) Lines(rows []models.ShipmentRow, terms Terms) []Line {
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, e.Line(row, terms))
	}
	return lines
}

// Totals computes all aggregates at once.
func (e *Engine) Totals(rows []models.ShipmentRow, terms Terms) Totals {
	return Totals{
		Debt:        e.TotalDebt(rows),
		Penalty:     e.TotalPenalty(rows, terms.EvaluationDate, terms.RateSelector),
		IncreaseSum: e.TotalIncreaseSum(rows, terms.IncreaseSum),
	}
}

func increaseFor(row models.ShipmentRow) decimal.Decimal {
	return row.Sum.Div(surchargeDivisor)
}
