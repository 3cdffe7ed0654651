package reportexport

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/phillip-england/timeclock/internal/payroll"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// RenderTable renders the report for a terminal.
func RenderTable(report *payroll.Report) string {
	var b strings.Builder

	shifts := make([][]string, 0, len(report.ShiftRows))
	for _, row := range report.ShiftRows {
		shifts = append(shifts, shiftRecord(row))
	}
	writeSection(&b, "Shifts", shiftHeaders, shifts)

	summaries := make([][]string, 0, len(report.Summaries))
	for _, row := range report.Summaries {
		summaries = append(summaries, summaryRecord(row))
	}
	writeSection(&b, "Summary", summaryHeaders, summaries)

	unpaired := make([][]string, 0, len(report.UnpairedRows))
	for _, row := range report.UnpairedRows {
		unpaired = append(unpaired, unpairedRecord(row))
	}
	writeSection(&b, "Unpaired Punches", unpairedHeaders, unpaired)

	for _, warning := range report.Warnings {
		b.WriteString(warnStyle.Render("warning: " + warning))
		b.WriteString("\n")
	}
	return b.String()
}

func writeSection(b *strings.Builder, title string, headers []string, rows [][]string) {
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(cellStyle.Render("(none)"))
		b.WriteString("\n")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	b.WriteString(t.String())
	b.WriteString("\n")
}
