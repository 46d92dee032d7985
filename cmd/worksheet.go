package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"penalty/internal/datemath"
	"penalty/internal/format"
	"penalty/internal/logger"
	"penalty/internal/worksheet"
	"penalty/pkg/models"
)

var worksheetCmd = &cobra.Command{
	Use:   "worksheet",
	Short: "Fill in a penalty worksheet interactively",
	Long: `Open an interactive penalty worksheet.

Commands are read one per line from standard input. Rows are addressed by
their number as shown by "show". Every value the worksheet publishes is
echoed as "event <topic> = <value>".

Type "help" for the list of commands.`,
	Example: `  penalty worksheet --term 30 --as-of 2024-03-01
  printf 'ship 1 2024-01-01\nsum 1 1000\nshow\n' | penalty worksheet --term 10`,
	Args: cobra.NoArgs,
	RunE: runWorksheet,
}

func init() {
	rootCmd.AddCommand(worksheetCmd)

	addTermFlags(worksheetCmd)
}

const worksheetHelp = `Commands:
  add                      append an empty row
  rm N                     remove row N
  ship N DATE|-            set or clear the shipment date of row N
  sum N TEXT               enter and commit the sum of row N
  type N TEXT              type into the sum field of row N without committing
  doc N TEXT               set the shipping document of row N
  check N on|off           mark row N for reporting
  term TEXT                set the payment term in days
  rate SELECTOR            0.15%, 0.10% or statutory-395
  date DATE                set the evaluation date
  increase on|off          toggle the 10% surcharge
  buyer|inn|address|contract TEXT
                           set the buyer details
  show                     print the worksheet
  help                     print this help
  quit                     leave`

var errUnknownCommand = errors.New("unknown command")

func runWorksheet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("worksheet")

	ws, err := newWorksheet(cmd, "worksheet")
	if err != nil {
		return err
	}

	s := newSession(ws, cmd.OutOrStdout())
	if err := s.run(cmd.Context().Done(), cmd.InOrStdin()); err != nil {
		return fmt.Errorf("worksheet session failed: %w", err)
	}

	log.Debug().Msg("Worksheet session closed")
	return nil
}

// session drives a worksheet from text commands.
type session struct {
	ws  *worksheet.Worksheet
	out io.Writer
}

func newSession(ws *worksheet.Worksheet, out io.Writer) *session {
	s := &session{ws: ws, out: out}
	ws.Subscribe(worksheet.NotifierFunc(s.echo))
	return s
}

// run executes commands from in until quit, end of input or done is closed.
// Closing done ends the session even while a read is blocked.
func (s *session) run(done <-chan struct{}, in io.Reader) error {
	stop := make(chan struct{})
	defer close(stop)
	lines, readErr := readLines(in, stop)

	for {
		select {
		case <-done:
			return nil
		default:
		}

		var line string
		var ok bool
		select {
		case <-done:
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			return <-readErr
		}

		quit, err := s.exec(line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// readLines scans in on its own goroutine until end of input or stop is
// closed. lines is closed after the scan error (or nil) has been sent on errc.
func readLines(in io.Reader, stop <-chan struct{}) (lines <-chan string, errc <-chan error) {
	out := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-stop:
				errs <- nil
				return
			}
		}
		errs <- scanner.Err()
	}()

	return out, errs
}

// exec runs a single command line.
func (s *session) exec(line string) (quit bool, err error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, worksheetHelp)
	case "show":
		printReport(s.out, s.ws.Snapshot())
	case "add":
		s.ws.AddRow()
	case "rm":
		row, _, err := s.row(rest)
		if err != nil {
			return false, err
		}
		return false, s.ws.RemoveRow(row.ID)
	case "ship":
		row, arg, err := s.row(rest)
		if err != nil {
			return false, err
		}
		if arg == "" || arg == "-" {
			return false, s.ws.SetShipmentDate(row.ID, nil)
		}
		date, err := datemath.Parse(arg)
		if err != nil {
			return false, err
		}
		return false, s.ws.SetShipmentDate(row.ID, &date)
	case "sum":
		row, arg, err := s.row(rest)
		if err != nil {
			return false, err
		}
		if err := s.ws.SetSum(row.ID, arg); err != nil {
			return false, err
		}
		committed, err := s.ws.CommitSum(row.ID, arg)
		if err != nil {
			return false, err
		}
		if !committed {
			fmt.Fprintf(s.out, "sum %q is not a number, kept %s\n", arg, format.NumberWithSpaces(row.Sum))
		}
	case "type":
		row, arg, err := s.row(rest)
		if err != nil {
			return false, err
		}
		return false, s.ws.SetSum(row.ID, arg)
	case "doc":
		row, arg, err := s.row(rest)
		if err != nil {
			return false, err
		}
		return false, s.ws.SetDocument(row.ID, arg)
	case "check":
		row, arg, err := s.row(rest)
		if err != nil {
			return false, err
		}
		on, err := parseSwitch(arg)
		if err != nil {
			return false, err
		}
		return false, s.ws.SetChecked(row.ID, on)
	case "term":
		s.ws.SetPaymentTerm(rest)
	case "rate":
		s.ws.SetPenaltyRate(rest)
	case "date":
		date, err := datemath.Parse(rest)
		if err != nil {
			return false, err
		}
		s.ws.SetEvaluationDate(date)
	case "increase":
		on, err := parseSwitch(rest)
		if err != nil {
			return false, err
		}
		s.ws.SetIncreaseSum(on)
	case "buyer":
		s.ws.SetBuyer(rest)
	case "inn":
		s.ws.SetTaxNumber(rest)
	case "address":
		s.ws.SetAddress(rest)
	case "contract":
		s.ws.SetContract(rest)
	default:
		return false, fmt.Errorf("%w %q, type help", errUnknownCommand, name)
	}
	return false, nil
}

// row resolves the leading row number of args and returns the remainder.
func (s *session) row(args string) (models.ShipmentRow, string, error) {
	numStr, rest, _ := strings.Cut(args, " ")
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return models.ShipmentRow{}, "", fmt.Errorf("row number expected, got %q", numStr)
	}

	rows := s.ws.Rows()
	if n < 1 || n > len(rows) {
		return models.ShipmentRow{}, "", fmt.Errorf("%w: row %d of %d", worksheet.ErrRowNotFound, n, len(rows))
	}
	return rows[n-1], strings.TrimSpace(rest), nil
}

func (s *session) echo(event worksheet.Event) {
	fmt.Fprintf(s.out, "event %s = %s\n", event.Topic, eventValue(event.Value))
}

func eventValue(v any) string {
	switch v := v.(type) {
	case decimal.Decimal:
		return format.NumberWithSpaces(v)
	case time.Time:
		return datemath.Format(&v)
	case []models.DocumentRef:
		parts := make([]string, 0, len(v))
		for _, d := range v {
			mark := " "
			if d.Checked {
				mark = "x"
			}
			parts = append(parts, fmt.Sprintf("[%s] %s", mark, d.Document))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(v)
	}
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes", "true", "1", "да":
		return true, nil
	case "off", "no", "false", "0", "нет":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
