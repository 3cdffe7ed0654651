package punchimport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phillip-england/timeclock/internal/payroll"
)

var (
	maxDailyAliases = []string{"max daily hours", "daily hours", "daily overtime threshold", "max hours"}
	breakAliases    = []string{"break minutes", "break deduction minutes", "break deduction", "break"}
)

// ReadRoster reads employee records with optional per-employee policy
// columns. Blank policy cells leave the field unset so defaults apply.
func ReadRoster(reader io.Reader, filename string) ([]payroll.Employee, error) {
	rows, err := readRows(reader, filename)
	if err != nil {
		return nil, err
	}

	h := newHeader(rows[0])
	idIdx := h.find(employeeIDAliases...)
	nameIdx := h.find(employeeNameAliases...)
	if idIdx == -1 && nameIdx == -1 {
		return nil, fmt.Errorf("%w: employee id or employee name", ErrMissingColumn)
	}
	maxIdx := h.find(maxDailyAliases...)
	breakIdx := h.find(breakAliases...)

	var employees []payroll.Employee
	for i, row := range rows[1:] {
		rowNum := i + 2
		id, ok := employeeKey(row, idIdx, nameIdx)
		if !ok {
			continue
		}
		emp := payroll.Employee{ID: id, Name: displayName(cellValue(row, nameIdx))}
		if emp.MaxDailyHours, err = optionalFloat(cellValue(row, maxIdx)); err != nil {
			return nil, fmt.Errorf("row %d: max daily hours: %w", rowNum, err)
		}
		if emp.BreakDeductionMinutes, err = optionalFloat(cellValue(row, breakIdx)); err != nil {
			return nil, fmt.Errorf("row %d: break minutes: %w", rowNum, err)
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// displayName turns "Doe, Jane" into "Jane Doe" and leaves other forms alone.
func displayName(name string) string {
	if !strings.Contains(name, ",") {
		return name
	}
	first, last, _, ok := splitTimePunchName(name)
	if !ok {
		return name
	}
	return first + " " + last
}

func optionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", value)
	}
	return &parsed, nil
}
