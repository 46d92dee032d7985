// Package sheets imports shipment tables from Excel workbooks and exports
// penalty reports back to them.
package sheets

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"penalty/internal/format"
	"penalty/internal/logger"
	"penalty/internal/worksheet"
)

// ReportSheet is the name of the sheet WriteReport creates.
const ReportSheet = "Penalty"

// Layout of the report sheet.
const (
	headerRow     = 7 // table header
	firstLineRow  = 8
	reportColumns = 8 // A to H
)

// numFmtMoney is the built-in "#,##0.00" format.
const numFmtMoney = 4

var reportHeaders = []string{
	"Дата отгрузки", "УПД", "Сумма", "Дата платежа",
	"Просрочка", "Сумма неустойки", "Сумма 10%", "Отмечено",
}

// Writer renders worksheet reports as xlsx.
type Writer struct {
	log zerolog.Logger
}

// NewWriter creates a report writer.
func NewWriter() *Writer {
	return &Writer{
		log: logger.WithComponent("workbook-writer"),
	}
}

// WriteReport writes report as a single-sheet workbook to w.
func (wr *Writer) WriteReport(w io.Writer, report worksheet.Report) error {
	const op = "WriteReport"

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			wr.log.Warn().Err(closeErr).Msg("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		return NewWorkbookError(op, err, "failed to name report sheet")
	}

	if err := wr.writeHeaderBlock(f, report); err != nil {
		return NewWorkbookError(op, err, "failed to write header block")
	}
	if err := wr.writeLines(f, report); err != nil {
		return NewWorkbookError(op, err, "failed to write lines")
	}
	if err := wr.formatSheet(f, len(report.Lines)); err != nil {
		// Formatting is cosmetic
		wr.log.Warn().Err(err).Msg("Failed to format report, continuing anyway")
	}

	if err := f.Write(w); err != nil {
		return NewWorkbookError(op, err, "failed to encode workbook")
	}

	wr.log.Info().
		Int("lines", len(report.Lines)).
		Str("total_penalty", report.TotalPenalty.StringFixed(2)).
		Msg("Penalty report written")

	return nil
}

// writeHeaderBlock writes the buyer and calculation terms above the table
func (wr *Writer) writeHeaderBlock(f *excelize.File, report worksheet.Report) error {
	rate := report.PenaltyRate
	increase := "нет"
	if report.IncreaseSum {
		increase = "да"
	}
	evaluation := report.EvaluationDate

	block := [][]interface{}{
		{"Покупатель:", report.Party.Buyer, "ИНН:", report.Party.TaxNumber},
		{"Адрес:", report.Party.Address},
		{"Договор:", report.Party.Contract},
		{"Срок оплаты:", report.PaymentTerm, "Неустойка:", rate},
		{"Расчет на:", format.Date(&evaluation), "Увеличение стоимости:", increase},
	}
	for i, values := range block {
		if err := setRow(f, i+1, values); err != nil {
			return err
		}
	}

	headers := make([]interface{}, 0, len(reportHeaders))
	for _, h := range reportHeaders {
		headers = append(headers, h)
	}
	return setRow(f, headerRow, headers)
}

// writeLines writes one row per shipment followed by the totals
func (wr *Writer) writeLines(f *excelize.File, report worksheet.Report) error {
	for i, line := range report.Lines {
		var days interface{} = ""
		if line.OverdueDays != nil {
			days = *line.OverdueDays
		}

		checked := ""
		if line.Checked {
			checked = "x"
		}

		values := []interface{}{
			format.Date(line.ShipmentDate), // A: Дата отгрузки
			line.Document,                  // B: УПД
			money(line.Sum),                // C: Сумма
			format.Date(line.PaymentDate),  // D: Дата платежа
			days,                           // E: Просрочка
			money(line.Penalty),            // F: Сумма неустойки
			money(line.IncreaseSum),        // G: Сумма 10%
			checked,                        // H: Отмечено
		}
		if err := setRow(f, firstLineRow+i, values); err != nil {
			return err
		}
	}

	totalsRow := firstLineRow + len(report.Lines) + 1
	totals := [][]interface{}{
		{"Сумма долга:", "", money(report.TotalDebt)},
		{"Сумма неустойки:", "", money(report.TotalPenalty)},
	}
	if report.IncreaseSum {
		totals = append(totals, []interface{}{"Сумма 10%:", "", money(report.TotalIncreaseSum)})
	}
	for i, values := range totals {
		if err := setRow(f, totalsRow+i, values); err != nil {
			return err
		}
	}

	return nil
}

// formatSheet makes the table header bold and applies the money format
func (wr *Writer) formatSheet(f *excelize.File, lines int) error {
	const op = "formatSheet"

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E5E5E5"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create header style: %w", op, err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return fmt.Errorf("%s: failed to create money style: %w", op, err)
	}

	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(reportColumns, headerRow)
	if err := f.SetCellStyle(ReportSheet, first, last, bold); err != nil {
		return fmt.Errorf("%s: failed to style header: %w", op, err)
	}

	// C, F, G on the lines plus C on the totals
	lastRow := firstLineRow + lines + 3
	for _, col := range []string{"C", "F", "G"} {
		if err := f.SetCellStyle(ReportSheet, fmt.Sprintf("%s%d", col, firstLineRow), fmt.Sprintf("%s%d", col, lastRow), moneyStyle); err != nil {
			return fmt.Errorf("%s: failed to style column %s: %w", op, col, err)
		}
	}

	if err := f.SetColWidth(ReportSheet, "A", "H", 18); err != nil {
		return fmt.Errorf("%s: failed to set column width: %w", op, err)
	}

	return nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(ReportSheet, cell, &values)
}

// money rounds to kopecks for a numeric cell.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
