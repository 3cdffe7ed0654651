// Package reportexport serializes payroll reports. Row order and the
// two-decimal hour strings produced by the engine are written verbatim.
package reportexport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phillip-england/timeclock/internal/payroll"
	"github.com/ulikunitz/xz"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
	FormatTable Format = "table"
)

var (
	shiftHeaders    = []string{"Employee", "Employee ID", "Date", "Clock In", "Clock Out", "Gross Hours", "Break Hours", "Net Hours", "Regular Hours", "Daily OT Hours", "Weekly OT Hours", "Notes"}
	summaryHeaders  = []string{"Employee", "Employee ID", "Shifts", "Gross Hours", "Break Hours", "Net Hours", "Regular Hours", "Daily OT Hours", "Weekly OT Hours"}
	unpairedHeaders = []string{"Employee", "Employee ID", "Timestamp", "Punch Type", "Reason"}
)

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	case FormatTable, "text":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown report format %q", raw)
	}
}

// FormatFromPath picks a format from the file extension, ignoring a
// trailing .xz.
func FormatFromPath(path string) Format {
	base := strings.TrimSuffix(strings.ToLower(path), ".xz")
	switch filepath.Ext(base) {
	case ".xlsx":
		return FormatXLSX
	case ".txt":
		return FormatTable
	default:
		return FormatCSV
	}
}

func ContentType(format Format) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatTable:
		return "text/plain; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

func Write(w io.Writer, report *payroll.Report, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, report)
	case FormatXLSX:
		return WriteXLSX(w, report)
	case FormatTable:
		_, err := io.WriteString(w, RenderTable(report))
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFile writes to a temporary file and renames it into place. A path
// ending in .xz is xz-compressed.
func WriteFile(path string, report *payroll.Report, format Format) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create temporary report: %w", err)
	}
	if err := writeMaybeCompressed(file, path, report, format); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temporary report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("install report: %w", err)
	}
	return nil
}

func writeMaybeCompressed(w io.Writer, path string, report *payroll.Report, format Format) error {
	if !strings.HasSuffix(strings.ToLower(path), ".xz") {
		if err := Write(w, report, format); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}
	zw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("start xz stream: %w", err)
	}
	if err := Write(zw, report, format); err != nil {
		_ = zw.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish xz stream: %w", err)
	}
	return nil
}

// OpenReport opens a report written by WriteFile, decompressing .xz.
func OpenReport(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(path), ".xz") {
		return file, nil
	}
	zr, err := xz.NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("open xz stream: %w", err)
	}
	return struct {
		io.Reader
		io.Closer
	}{zr, file}, nil
}

func shiftRecord(row payroll.ShiftRow) []string {
	return []string{
		row.EmployeeName, row.EmployeeID, row.Date, row.ClockIn, row.ClockOut,
		row.GrossHours, row.BreakHours, row.NetHours, row.RegularHours,
		row.DailyOvertimeHours, row.WeeklyOvertimeHours, row.Notes,
	}
}

func summaryRecord(row payroll.SummaryRow) []string {
	return []string{
		row.EmployeeName, row.EmployeeID, fmt.Sprint(row.ShiftCount),
		row.GrossHours, row.BreakHours, row.NetHours, row.RegularHours,
		row.DailyOvertimeHours, row.WeeklyOvertimeHours,
	}
}

func unpairedRecord(row payroll.UnpairedRow) []string {
	return []string{row.EmployeeName, row.EmployeeID, row.Timestamp, row.Kind, row.Reason}
}
