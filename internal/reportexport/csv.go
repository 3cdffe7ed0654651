package reportexport

import (
	"encoding/csv"
	"io"

	"github.com/phillip-england/timeclock/internal/payroll"
)

// WriteCSV writes three sections separated by a blank line: shifts,
// per-employee summary, then unpaired punches.
func WriteCSV(w io.Writer, report *payroll.Report) error {
	cw := csv.NewWriter(w)

	records := [][]string{shiftHeaders}
	for _, row := range report.ShiftRows {
		records = append(records, shiftRecord(row))
	}
	records = append(records, []string{}, []string{"Summary"}, summaryHeaders)
	for _, row := range report.Summaries {
		records = append(records, summaryRecord(row))
	}
	records = append(records, []string{}, []string{"Unpaired Punches"}, unpairedHeaders)
	for _, row := range report.UnpairedRows {
		records = append(records, unpairedRecord(row))
	}
	if len(report.Warnings) > 0 {
		records = append(records, []string{}, []string{"Warnings"})
		for _, warning := range report.Warnings {
			records = append(records, []string{warning})
		}
	}

	return cw.WriteAll(records)
}
