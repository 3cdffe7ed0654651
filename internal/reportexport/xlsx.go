package reportexport

import (
	"fmt"
	"io"

	"github.com/phillip-england/timeclock/internal/payroll"
	"github.com/xuri/excelize/v2"
)

const (
	shiftsSheet   = "Shifts"
	summarySheet  = "Summary"
	unpairedSheet = "Unpaired"
)

func WriteXLSX(w io.Writer, report *payroll.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", shiftsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{summarySheet, unpairedSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	shifts := [][]string{shiftHeaders}
	for _, row := range report.ShiftRows {
		shifts = append(shifts, shiftRecord(row))
	}
	summaries := [][]string{summaryHeaders}
	for _, row := range report.Summaries {
		summaries = append(summaries, summaryRecord(row))
	}
	unpaired := [][]string{unpairedHeaders}
	for _, row := range report.UnpairedRows {
		unpaired = append(unpaired, unpairedRecord(row))
	}

	for _, sheet := range []struct {
		name string
		rows [][]string
	}{
		{shiftsSheet, shifts},
		{summarySheet, summaries},
		{unpairedSheet, unpaired},
	} {
		if err := writeSheet(f, sheet.name, sheet.rows, headerStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]string, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
