package penalty

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penalty/internal/datemath"
	"penalty/pkg/models"
)

func shipmentRow(sum string, shipped *time.Time, term int) models.ShipmentRow {
	row := models.NewShipmentRow()
	row.Sum = decimal.RequireFromString(sum)
	if shipped != nil {
		s := *shipped
		p := datemath.AddDays(s, term)
		row.ShipmentDate = &s
		row.PaymentDate = &p
	}
	return row
}

func dateRef(y int, m time.Month, d int) *time.Time {
	t := datemath.Date(y, m, d)
	return &t
}

func TestComputeRowPenalty(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	row := shipmentRow("1000", dateRef(2024, time.January, 1), 10)
	require.Equal(t, datemath.Date(2024, time.January, 11), *row.PaymentDate)

	asOf := datemath.Date(2024, time.February, 10)
	assert.Equal(t, "45.00", engine.ComputeRowPenalty(row, asOf, RateFixed015).StringFixed(2))
	assert.Equal(t, "15.62", engine.ComputeRowPenalty(row, asOf, RateStatutory395).StringFixed(2))
	assert.True(t, engine.ComputeRowPenalty(row, asOf, "bogus").IsZero())

	unshipped := shipmentRow("1000", nil, 10)
	assert.True(t, engine.ComputeRowPenalty(unshipped, asOf, RateFixed015).IsZero())

	notDue := datemath.Date(2024, time.January, 5)
	assert.True(t, engine.ComputeRowPenalty(row, notDue, RateFixed015).IsZero())
}

func TestTotals(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	rows := []models.ShipmentRow{
		shipmentRow("100", dateRef(2024, time.January, 1), 10),
		shipmentRow("200", nil, 10),
	}
	terms := Terms{
		EvaluationDate: datemath.Date(2024, time.February, 10),
		RateSelector:   RateFixed015,
		IncreaseSum:    true,
	}

	totals := engine.Totals(rows, terms)
	assert.Equal(t, "300.00", totals.Debt.StringFixed(2))
	assert.Equal(t, "4.50", totals.Penalty.StringFixed(2))
	assert.Equal(t, "30.00", totals.IncreaseSum.StringFixed(2))

	terms.IncreaseSum = false
	assert.True(t, engine.Totals(rows, terms).IncreaseSum.IsZero())
}

func TestTotalPenaltyEqualsSumOfLines(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	rows := []models.ShipmentRow{
		shipmentRow("1000", dateRef(2024, time.January, 1), 10),
		shipmentRow("2500.50", dateRef(2023, time.December, 1), 30),
		shipmentRow("0", dateRef(2023, time.November, 1), 30),
		shipmentRow("999.99", nil, 0),
	}

	for _, selector := range append(Selectors, "nonsense") {
		terms := Terms{EvaluationDate: datemath.Date(2024, time.March, 1), RateSelector: selector}

		sum := decimal.Zero
		for _, line := range engine.Lines(rows, terms) {
			sum = sum.Add(line.Penalty)
		}
		assert.True(t, sum.Equal(engine.TotalPenalty(rows, terms.EvaluationDate, selector)), selector)
	}
}

func TestLine(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	terms := Terms{
		EvaluationDate: datemath.Date(2024, time.February, 10),
		RateSelector:   RateFixed015,
		IncreaseSum:    true,
	}

	line := engine.Line(shipmentRow("1000", dateRef(2024, time.January, 1), 10), terms)
	assert.True(t, line.HasDays)
	assert.Equal(t, 30, line.OverdueDays)
	assert.Equal(t, "45.00", line.Penalty.StringFixed(2))
	assert.Equal(t, "100.00", line.IncreaseSum.StringFixed(2))

	blank := engine.Line(shipmentRow("1000", nil, 10), terms)
	assert.False(t, blank.HasDays)
	assert.True(t, blank.Penalty.IsZero())
	assert.Equal(t, "100.00", blank.IncreaseSum.StringFixed(2), "surcharge ignores overdue status")
}
