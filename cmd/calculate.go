package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"penalty/internal/format"
	"penalty/internal/logger"
	"penalty/internal/sheets"
	"penalty/internal/worksheet"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate [shipments.xlsx]",
	Short: "Calculate penalties for a workbook of shipments",
	Long: `Calculate late-payment penalties for the shipments listed in an Excel workbook.

The sheet is expected to hold one shipment per row after a header row:
  A - shipment date (DD.MM.YYYY, YYYY-MM-DD or an Excel date)
  B - shipping document (УПД)
  C - sum ("1 234,56" and "1234.56" are both accepted)
  D - checked flag (x, 1, true, да), optional

Rows with an unreadable sum are kept with a zero sum and reported as warnings.
Rows with an unreadable date contribute no penalty.

Defaults for --term and --rate come from PAYMENT_TERM and PENALTY_RATE.`,
	Example: `  # Penalty at 0.15% per day with a 30-day payment term
  penalty calculate shipments.xlsx --term 30

  # Statutory rate as of a fixed date, with the 10% surcharge
  penalty calculate shipments.xlsx --term 30 --rate statutory-395 --as-of 2024-03-01 --increase-sum

  # Write the claim annex and print JSON
  penalty calculate shipments.xlsx --term 14 --buyer "ООО Ромашка" --output claim.xlsx --json`,
	Args: cobra.ExactArgs(1),
	RunE: runCalculate,
}

func init() {
	rootCmd.AddCommand(calculateCmd)

	addTermFlags(calculateCmd)
	calculateCmd.Flags().String("sheet", "", "Sheet with the shipments (default: active sheet)")
	calculateCmd.Flags().StringP("output", "o", "", "Write the penalty report to this xlsx file")
	calculateCmd.Flags().Bool("json", false, "Print the report as JSON")
	calculateCmd.Flags().String("buyer", "", "Buyer name")
	calculateCmd.Flags().String("tax-number", "", "Buyer tax number (ИНН)")
	calculateCmd.Flags().String("address", "", "Buyer address")
	calculateCmd.Flags().String("contract", "", "Contract reference")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("calculate")
	path := args[0]

	sheetName, _ := cmd.Flags().GetString("sheet")
	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if err := validateWorkbookFile(path, log); err != nil {
		return err
	}
	if outputPath != "" && !strings.EqualFold(filepath.Ext(outputPath), ".xlsx") {
		return fmt.Errorf("output file must have the .xlsx extension: %s", outputPath)
	}

	ws, err := newWorksheet(cmd, "calculate")
	if err != nil {
		return err
	}
	setParty(cmd, ws)

	report, err := calculateWorkbook(cmd.Context(), ws, path, sheetName, log)
	if err != nil {
		return handleCalculateError(err, log)
	}

	if jsonOutput {
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return fmt.Errorf("failed to print report: %w", err)
		}
	} else {
		printReport(cmd.OutOrStdout(), report)
	}

	if outputPath != "" {
		if err := writeReportFile(outputPath, report); err != nil {
			return handleCalculateError(err, log)
		}
		log.Info().Str("file", outputPath).Msg("Penalty report written")
	}

	return nil
}

// calculateWorkbook loads the shipments of path into ws and renders the result.
func calculateWorkbook(ctx context.Context, ws *worksheet.Worksheet, path, sheetName string, log zerolog.Logger) (worksheet.Report, error) {
	const op = "calculateWorkbook"

	f, err := os.Open(path)
	if err != nil {
		return worksheet.Report{}, fmt.Errorf("%s: failed to open workbook: %w", op, err)
	}
	defer f.Close()

	shipments, err := sheets.NewReader().ReadShipments(f, sheetName)
	if err != nil {
		return worksheet.Report{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return worksheet.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	rejected, err := sheets.Populate(ws, shipments)
	if err != nil {
		return worksheet.Report{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, s := range rejected {
		log.Warn().
			Int("row", s.RowNum).
			Str("document", s.Document).
			Str("sum", s.SumText).
			Msg("Sum is not a number, row counted with zero sum")
	}

	log.Info().
		Int("shipments", len(shipments)).
		Int("rejected_sums", len(rejected)).
		Msg("Shipments loaded")

	return ws.Snapshot(), nil
}

func setParty(cmd *cobra.Command, ws *worksheet.Worksheet) {
	if v, _ := cmd.Flags().GetString("buyer"); v != "" {
		ws.SetBuyer(v)
	}
	if v, _ := cmd.Flags().GetString("tax-number"); v != "" {
		ws.SetTaxNumber(v)
	}
	if v, _ := cmd.Flags().GetString("address"); v != "" {
		ws.SetAddress(v)
	}
	if v, _ := cmd.Flags().GetString("contract"); v != "" {
		ws.SetContract(v)
	}
}

// validateWorkbookFile checks that path is a readable xlsx file
func validateWorkbookFile(path string, log zerolog.Logger) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", path).
				Msg("Workbook file not found")
			return fmt.Errorf("workbook file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", path).
				Msg("Permission denied accessing workbook file")
			return fmt.Errorf("permission denied accessing workbook file: %s", path)
		}
		return fmt.Errorf("error accessing workbook file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().
			Str("file", path).
			Msg("Path is not a regular file")
		return fmt.Errorf("path is not a regular file: %s", path)
	}

	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		log.Error().
			Str("file", path).
			Msg("File does not have .xlsx extension")
		return fmt.Errorf("file must have .xlsx extension: %s", path)
	}

	return nil
}

func writeReportFile(path string, report worksheet.Report) (err error) {
	const op = "writeReportFile"

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%s: %w", op, closeErr)
		}
	}()

	return sheets.NewWriter().WriteReport(f, report)
}

// handleCalculateError translates errors into messages for the user
func handleCalculateError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Penalty calculation failed")

	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("penalty calculation was canceled")
	case errors.Is(err, sheets.ErrSheetNotFound):
		return fmt.Errorf("sheet not found in workbook. Check the --sheet flag: %w", err)
	case errors.Is(err, sheets.ErrEmptyWorkbook):
		return fmt.Errorf("the shipment sheet is empty")
	case errors.Is(err, sheets.ErrInvalidWorkbook):
		return fmt.Errorf("invalid or corrupted xlsx file. Please check the file integrity")
	case errors.Is(err, worksheet.ErrRowNotFound):
		return fmt.Errorf("internal error while filling the worksheet: %w", err)
	default:
		return fmt.Errorf("penalty calculation failed: %w", err)
	}
}

func printJSON(w io.Writer, report worksheet.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// printReport renders report as an aligned console table
func printReport(w io.Writer, report worksheet.Report) {
	p := report.Party
	if p.Buyer != "" {
		fmt.Fprintf(w, "Покупатель: %s\n", p.Buyer)
	}
	if p.TaxNumber != "" {
		fmt.Fprintf(w, "ИНН: %s\n", p.TaxNumber)
	}
	if p.Address != "" {
		fmt.Fprintf(w, "Адрес: %s\n", p.Address)
	}
	if p.Contract != "" {
		fmt.Fprintf(w, "Договор: %s\n", p.Contract)
	}
	fmt.Fprintf(w, "Дата расчета: %s  Срок оплаты: %s  Ставка: %s\n\n",
		format.Date(&report.EvaluationDate), report.PaymentTerm, report.PenaltyRate)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := "#\tДата отгрузки\tУПД\tСумма\tДата платежа\tПросрочка\tНеустойка\t"
	if report.IncreaseSum {
		header += "10%\t"
	}
	fmt.Fprintln(tw, header)

	for i, line := range report.Lines {
		days, hasDays := 0, line.OverdueDays != nil
		if hasDays {
			days = *line.OverdueDays
		}
		row := fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s\t%s\t",
			i+1,
			format.Date(line.ShipmentDate),
			line.Document,
			format.NumberWithSpaces(line.Sum),
			format.Date(line.PaymentDate),
			format.Days(days, hasDays),
			format.NumberWithSpaces(line.Penalty),
		)
		if report.IncreaseSum {
			row += format.NumberWithSpaces(line.IncreaseSum) + "\t"
		}
		fmt.Fprintln(tw, row)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nИтого долг: %s\n", format.NumberWithSpaces(report.TotalDebt))
	fmt.Fprintf(w, "Итого неустойка: %s\n", format.NumberWithSpaces(report.TotalPenalty))
	if report.IncreaseSum {
		fmt.Fprintf(w, "Итого 10%%: %s\n", format.NumberWithSpaces(report.TotalIncreaseSum))
	}
}
