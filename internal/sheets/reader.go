package sheets

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"penalty/internal/datemath"
	"penalty/internal/logger"
)

// ShipmentInput is one data row of a shipment sheet, as entered.
//
// Sums stay raw text so that they go through the same commit rules as a sum
// typed by hand.
type ShipmentInput struct {
	RowNum       int        // 1-based row number in the sheet
	ShipmentDate *time.Time // Column A, nil if blank or unreadable
	Document     string     // Column B
	SumText      string     // Column C
	Checked      bool       // Column D
}

// Reader reads shipment tables from xlsx workbooks.
type Reader struct {
	log zerolog.Logger
}

// NewReader creates a workbook reader.
func NewReader() *Reader {
	return &Reader{
		log: logger.WithComponent("workbook-reader"),
	}
}

// ReadShipments reads shipment rows from sheetName, or from the active sheet
// when sheetName is empty.
//
// Expected columns: A=shipment date, B=document, C=sum, D=checked. The first
// row is a header. Blank rows are skipped; rows with an unreadable date are
// kept without a date.
func (r *Reader) ReadShipments(data io.Reader, sheetName string) ([]ShipmentInput, error) {
	const op = "ReadShipments"

	f, err := excelize.OpenReader(data)
	if err != nil {
		return nil, NewWorkbookError(op, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err), "")
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			r.log.Warn().Err(closeErr).Msg("Failed to close workbook")
		}
	}()

	if sheetName == "" {
		sheetName = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, NewWorkbookError(op, ErrSheetNotFound, sheetName)
	}

	r.log.Info().Str("sheet", sheetName).Msg("Reading shipments")

	values, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, NewWorkbookError(op, err, "failed to read rows of "+sheetName)
	}
	if len(values) == 0 {
		return nil, NewWorkbookError(op, ErrEmptyWorkbook, sheetName)
	}

	// Skip header row and parse data
	var shipments []ShipmentInput
	for i, row := range values[1:] {
		rowNum := i + 2 // Account for header and 0-based indexing

		if isBlank(row) {
			continue
		}

		shipments = append(shipments, r.parseShipmentRow(row, rowNum))
	}

	r.log.Info().
		Int("total_rows", len(values)-1).
		Int("parsed_shipments", len(shipments)).
		Str("sheet", sheetName).
		Msg("Shipments read successfully")

	return shipments, nil
}

// parseShipmentRow parses a single shipment row
func (r *Reader) parseShipmentRow(row []string, rowNum int) ShipmentInput {
	input := ShipmentInput{
		RowNum:   rowNum,
		Document: getString(row, 1),
		SumText:  getString(row, 2),
		Checked:  parseChecked(getString(row, 3)),
	}

	dateStr := getString(row, 0)
	if dateStr != "" {
		date, err := parseCellDate(dateStr)
		if err != nil {
			r.log.Warn().
				Err(err).
				Str("date_str", dateStr).
				Int("row", rowNum).
				Msg("Invalid shipment date, leaving it blank")
		} else {
			input.ShipmentDate = &date
		}
	}

	return input
}

// parseCellDate accepts both text dates and Excel serial dates.
func parseCellDate(s string) (time.Time, error) {
	if date, err := datemath.Parse(s); err == nil {
		return date, nil
	}

	serial, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s: %w", s, datemath.ErrInvalidDate)
	}
	date, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to convert serial date %s: %w", s, datemath.ErrInvalidDate)
	}
	return datemath.Truncate(date), nil
}

func parseChecked(s string) bool {
	switch strings.ToLower(s) {
	case "x", "1", "true", "yes", "y", "да", "+":
		return true
	default:
		return false
	}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// getString safely extracts a trimmed cell value from a row slice
func getString(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
