// Package punchimport reads punch events and employee rosters exported by
// time clocks and payroll tools (.xlsx, legacy .xls and .csv).
package punchimport

import (
	"fmt"
	"io"
	"time"

	"github.com/phillip-england/timeclock/internal/payroll"
)

var (
	employeeIDAliases   = []string{"employee id", "employee number", "emp id", "id"}
	employeeNameAliases = []string{"employee name", "employee", "time punch name", "name"}
	kindAliases         = []string{"kind", "type", "punch type", "action", "event"}
	timestampAliases    = []string{"timestamp", "time stamp", "punch time", "datetime", "date time"}
	dateAliases         = []string{"punch date", "date", "business date"}
	timeAliases         = []string{"time"}
	timeInAliases       = []string{"time in", "clock in", "in"}
	timeOutAliases      = []string{"time out", "clock out", "out"}
)

// ReadPunches accepts two sheet layouts. Event sheets have one punch per
// row (employee, kind, timestamp or date + time). Entry sheets have one
// shift per row (employee, punch date, time in, time out) and expand to an
// in and an out punch; a blank side is simply omitted so the other punch
// surfaces as unpaired.
//
// Wall-clock values are interpreted in loc; nil means time.Local.
func ReadPunches(reader io.Reader, filename string, loc *time.Location) ([]payroll.Punch, error) {
	if loc == nil {
		loc = time.Local
	}
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

	if inIdx, outIdx := h.find(timeInAliases...), h.find(timeOutAliases...); inIdx != -1 && outIdx != -1 {
		dateIdx, err := h.require("punch date", dateAliases...)
		if err != nil {
			return nil, err
		}
		return readEntryRows(rows[1:], idIdx, nameIdx, dateIdx, inIdx, outIdx, loc)
	}

	kindIdx, err := h.require("kind", kindAliases...)
	if err != nil {
		return nil, err
	}
	tsIdx := h.find(timestampAliases...)
	dateIdx, timeIdx := h.find(dateAliases...), h.find(timeAliases...)
	if tsIdx == -1 && (dateIdx == -1 || timeIdx == -1) {
		return nil, fmt.Errorf("%w: timestamp (or date and time)", ErrMissingColumn)
	}

	var punches []payroll.Punch
	for i, row := range rows[1:] {
		rowNum := i + 2
		employeeID, ok := employeeKey(row, idIdx, nameIdx)
		if !ok {
			return nil, fmt.Errorf("row %d: employee is required", rowNum)
		}
		kind, err := payroll.ParsePunchKind(cellValue(row, kindIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		var ts time.Time
		if tsIdx != -1 && cellValue(row, tsIdx) != "" {
			ts, err = parseTimestamp(cellValue(row, tsIdx), loc)
		} else {
			ts, err = parseDateAndClock(cellValue(row, dateIdx), cellValue(row, timeIdx), loc)
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		punches = append(punches, payroll.Punch{EmployeeID: employeeID, Kind: kind, Timestamp: ts})
	}
	return punches, nil
}

// readEntryRows expands one shift per row. A time out earlier than the
// time in closes an overnight shift and lands on the next day.
func readEntryRows(rows [][]string, idIdx, nameIdx, dateIdx, inIdx, outIdx int, loc *time.Location) ([]payroll.Punch, error) {
	var punches []payroll.Punch
	for i, row := range rows {
		rowNum := i + 2
		timeIn, timeOut := cellValue(row, inIdx), cellValue(row, outIdx)
		if timeIn == "" && timeOut == "" {
			continue
		}
		employeeID, ok := employeeKey(row, idIdx, nameIdx)
		if !ok {
			return nil, fmt.Errorf("row %d: employee is required", rowNum)
		}
		date, err := parseDate(cellValue(row, dateIdx), loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		var inClock clockTime
		if timeIn != "" {
			if inClock, err = parseClock(timeIn); err != nil {
				return nil, fmt.Errorf("row %d: time in: %w", rowNum, err)
			}
			punches = append(punches, payroll.Punch{EmployeeID: employeeID, Kind: payroll.ClockIn, Timestamp: combineDateClock(date, inClock, loc)})
		}
		if timeOut != "" {
			outClock, err := parseClock(timeOut)
			if err != nil {
				return nil, fmt.Errorf("row %d: time out: %w", rowNum, err)
			}
			outDate := date
			if timeIn != "" && outClock.before(inClock) {
				outDate = date.AddDate(0, 0, 1)
			}
			punches = append(punches, payroll.Punch{EmployeeID: employeeID, Kind: payroll.ClockOut, Timestamp: combineDateClock(outDate, outClock, loc)})
		}
	}
	return punches, nil
}

func parseDateAndClock(dateValue, clockValue string, loc *time.Location) (time.Time, error) {
	date, err := parseDate(dateValue, loc)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := parseClock(clockValue)
	if err != nil {
		return time.Time{}, err
	}
	return combineDateClock(date, clock, loc), nil
}
