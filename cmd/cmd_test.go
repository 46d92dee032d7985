package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"penalty/internal/datemath"
	"penalty/internal/penalty"
	"penalty/internal/sheets"
	"penalty/internal/worksheet"
)

func newTestWorksheet() *worksheet.Worksheet {
	return worksheet.New(
		penalty.NewEngine(penalty.DefaultPolicy()),
		worksheet.WithEvaluationDate(datemath.Date(2024, time.February, 10)),
		worksheet.WithPaymentTerm("10"),
	)
}

func TestSessionEchoesEvents(t *testing.T) {
	var out bytes.Buffer
	s := newSession(newTestWorksheet(), &out)

	script := strings.Join([]string{
		"ship 1 2024-01-01",
		"sum 1 1 000",
		"quit",
		"sum 1 7",
	}, "\n")
	require.NoError(t, s.run(nil, strings.NewReader(script)))

	got := out.String()
	assert.Contains(t, got, "event total_debt = 1 000,00\n")
	assert.Contains(t, got, "event total_penalty = 45,00\n")
	assert.NotContains(t, got, "7,00", "commands after quit are not run")
}

func TestSessionRejectedSum(t *testing.T) {
	var out bytes.Buffer
	s := newSession(newTestWorksheet(), &out)

	_, err := s.exec("sum 1 250")
	require.NoError(t, err)
	out.Reset()

	_, err = s.exec("sum 1 abc")
	require.NoError(t, err)
	assert.Equal(t, "sum \"abc\" is not a number, kept 250,00\n", out.String())
	assert.Equal(t, "250.00", s.ws.Rows()[0].SumInput)
}

func TestSessionContextCommands(t *testing.T) {
	var out bytes.Buffer
	s := newSession(newTestWorksheet(), &out)

	for _, line := range []string{
		"ship 1 01.01.2024",
		"sum 1 1000",
		"rate statutory-395",
		"increase on",
		"date 2024-02-10",
		"doc 1 УПД-7",
		"check 1 on",
		"buyer ООО Ромашка",
		"inn 7700000000",
	} {
		_, err := s.exec(line)
		require.NoError(t, err, line)
	}

	got := out.String()
	assert.Contains(t, got, "event penalty_rate = statutory-395\n")
	assert.Contains(t, got, "event total_penalty = 15,62\n")
	assert.Contains(t, got, "event total_increase_sum = 100,00\n")
	assert.Contains(t, got, "event evaluation_date = 2024-02-10\n")
	assert.Contains(t, got, "event documents = [x] УПД-7\n")
	assert.Contains(t, got, "event buyer = ООО Ромашка\n")
	assert.Contains(t, got, "event tax_number = 7700000000\n")
}

func TestSessionRows(t *testing.T) {
	var out bytes.Buffer
	s := newSession(newTestWorksheet(), &out)

	_, err := s.exec("add")
	require.NoError(t, err)
	require.Len(t, s.ws.Rows(), 2)

	_, err = s.exec("rm 3")
	require.ErrorIs(t, err, worksheet.ErrRowNotFound)

	_, err = s.exec("rm x")
	require.Error(t, err)

	_, err = s.exec("rm 1")
	require.NoError(t, err)
	assert.Len(t, s.ws.Rows(), 1)

	_, err = s.exec("frobnicate")
	require.ErrorIs(t, err, errUnknownCommand)

	_, err = s.exec("increase maybe")
	require.Error(t, err)
}

func TestSessionStopsWhenDone(t *testing.T) {
	var out bytes.Buffer
	s := newSession(newTestWorksheet(), &out)

	done := make(chan struct{})
	close(done)
	require.NoError(t, s.run(done, strings.NewReader("add\n")))
	assert.Len(t, s.ws.Rows(), 1)
}

func TestSessionStopsWhileReadBlocks(t *testing.T) {
	var out bytes.Buffer
	s := newSession(newTestWorksheet(), &out)

	in, feed := io.Pipe()
	t.Cleanup(func() { _ = feed.Close() })

	done := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		result <- s.run(done, in)
	}()

	close(done)
	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session still reading after done was closed")
	}
}

func writeShipmentsFile(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"Дата отгрузки", "УПД", "Сумма", "Отметка"},
		{"01.01.2024", "A-1", "1 000", "x"},
		{"01.01.2024", "A-2", "много", ""},
	}
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		v := values
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &v))
	}

	path := filepath.Join(t.TempDir(), "shipments.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestCalculateWorkbook(t *testing.T) {
	path := writeShipmentsFile(t)
	require.NoError(t, validateWorkbookFile(path, zerolog.Nop()))

	report, err := calculateWorkbook(context.Background(), newTestWorksheet(), path, "", zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, report.Lines, 2)
	assert.Equal(t, "1000.00", report.TotalDebt.StringFixed(2))
	assert.Equal(t, "45.00", report.TotalPenalty.StringFixed(2))

	var out bytes.Buffer
	printReport(&out, report)
	assert.Contains(t, out.String(), "Итого неустойка: 45,00")
	assert.Contains(t, out.String(), "11.01.2024")

	reportPath := filepath.Join(t.TempDir(), "claim.xlsx")
	require.NoError(t, writeReportFile(reportPath, report))
	written, err := excelize.OpenFile(reportPath)
	require.NoError(t, err)
	defer written.Close()
	assert.Contains(t, written.GetSheetList(), sheets.ReportSheet)
}

func TestCalculateWorkbookCanceled(t *testing.T) {
	path := writeShipmentsFile(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calculateWorkbook(ctx, newTestWorksheet(), path, "", zerolog.Nop())
	require.ErrorIs(t, err, context.Canceled)
	assert.EqualError(t, handleCalculateError(err, zerolog.Nop()), "penalty calculation was canceled")
}

func TestValidateWorkbookFile(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, validateWorkbookFile(filepath.Join(dir, "missing.xlsx"), zerolog.Nop()))
	require.Error(t, validateWorkbookFile(dir, zerolog.Nop()))

	csv := filepath.Join(dir, "shipments.csv")
	require.NoError(t, os.WriteFile(csv, []byte("a,b"), 0o600))
	require.Error(t, validateWorkbookFile(csv, zerolog.Nop()))
}

func TestHandleCalculateError(t *testing.T) {
	err := sheets.NewWorkbookError("ReadShipments", sheets.ErrSheetNotFound, "Отгрузки")
	assert.ErrorIs(t, handleCalculateError(err, zerolog.Nop()), sheets.ErrSheetNotFound)
}
