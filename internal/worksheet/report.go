package worksheet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"penalty/pkg/models"
)

// Report is a point-in-time rendering of the whole worksheet.
type Report struct {
	Party          models.Party `json:"party"`
	EvaluationDate time.Time    `json:"evaluation_date"`
	PaymentTerm    string       `json:"payment_term"`
	PenaltyRate    string       `json:"penalty_rate"`
	IncreaseSum    bool         `json:"increase_sum"`
	Lines          []ReportLine `json:"lines"`

	TotalDebt        decimal.Decimal `json:"total_debt"`
	TotalPenalty     decimal.Decimal `json:"total_penalty"`
	TotalIncreaseSum decimal.Decimal `json:"total_increase_sum"`
}

// ReportLine is one row together with its derived values.
type ReportLine struct {
	ID           uuid.UUID       `json:"id"`
	ShipmentDate *time.Time      `json:"shipment_date,omitempty"`
	Document     string          `json:"document"`
	Sum          decimal.Decimal `json:"sum"`
	PaymentDate  *time.Time      `json:"payment_date,omitempty"`
	OverdueDays  *int            `json:"overdue_days,omitempty"` // nil renders blank
	Penalty      decimal.Decimal `json:"penalty"`
	IncreaseSum  decimal.Decimal `json:"increase_sum"`
	Checked      bool            `json:"checked"`
}

// Snapshot renders the current state. Values are recomputed, never cached.
func (w *Worksheet) Snapshot() Report {
	rows := w.Rows()
	lines := w.engine.Lines(rows, w.Terms())
	totals := w.engine.Totals(rows, w.Terms())

	report := Report{
		Party:            w.party,
		EvaluationDate:   w.ctx.EvaluationDate,
		PaymentTerm:      w.ctx.PaymentTermText,
		PenaltyRate:      w.ctx.PenaltyRate,
		IncreaseSum:      w.ctx.IncreaseSum,
		Lines:            make([]ReportLine, 0, len(rows)),
		TotalDebt:        totals.Debt,
		TotalPenalty:     totals.Penalty,
		TotalIncreaseSum: totals.IncreaseSum,
	}

	for i, row := range rows {
		line := ReportLine{
			ID:           row.ID,
			ShipmentDate: row.ShipmentDate,
			Document:     row.Document,
			Sum:          row.Sum,
			PaymentDate:  row.PaymentDate,
			Penalty:      lines[i].Penalty,
			IncreaseSum:  lines[i].IncreaseSum,
			Checked:      row.Checked,
		}
		if lines[i].HasDays {
			days := lines[i].OverdueDays
			line.OverdueDays = &days
		}
		report.Lines = append(report.Lines, line)
	}

	return report
}
