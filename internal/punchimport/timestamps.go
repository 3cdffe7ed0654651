package punchimport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 03:04 PM",
	"1/2/06 15:04",
	"1/2/06 3:04 PM",
	"01-02-06 15:04",
}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01/02/06",
	"1-2-2006",
	"01-02-2006",
	"01-02-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006/01/02",
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3PM",
	"3 PM",
}

// parseTimestamp reads an absolute instant. Values carrying their own
// offset keep it; wall-clock values are read in loc.
func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp is required")
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		return excelSerialToTime(serial, loc)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, strings.ToUpper(value), loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelSerialToTime(serial, loc)
		if err != nil {
			return time.Time{}, err
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// clockTime is a wall-clock time of day.
type clockTime struct {
	hour, minute, second int
}

func (c clockTime) before(other clockTime) bool {
	if c.hour != other.hour {
		return c.hour < other.hour
	}
	if c.minute != other.minute {
		return c.minute < other.minute
	}
	return c.second < other.second
}

// parseClock reads a time-of-day cell, including Excel day fractions such
// as 0.375 for 09:00.
func parseClock(value string) (clockTime, error) {
	value = strings.TrimSpace(value)
	if fraction, err := strconv.ParseFloat(value, 64); err == nil {
		if fraction < 0 || fraction >= 1 {
			return clockTime{}, fmt.Errorf("time of day %q out of range", value)
		}
		seconds := int(math.Round(fraction * 24 * 60 * 60))
		if seconds >= 24*60*60 {
			seconds = 24*60*60 - 1
		}
		return clockTime{hour: seconds / 3600, minute: seconds % 3600 / 60, second: seconds % 60}, nil
	}
	upper := strings.ToUpper(value)
	for _, layout := range clockLayouts {
		if parsed, err := time.Parse(layout, upper); err == nil {
			return clockTime{hour: parsed.Hour(), minute: parsed.Minute(), second: parsed.Second()}, nil
		}
	}
	return clockTime{}, fmt.Errorf("unrecognized time %q", value)
}

// combineDateClock builds the instant from wall-clock fields so punches on
// DST change days keep the clock reading printed in the sheet.
func combineDateClock(date time.Time, clock clockTime, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, clock.hour, clock.minute, clock.second, 0, loc)
}

func excelSerialToTime(serial float64, loc *time.Location) (time.Time, error) {
	if serial <= 0 {
		return time.Time{}, fmt.Errorf("invalid spreadsheet date serial %v", serial)
	}
	parsed, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	// ExcelDateToTime yields the wall clock in UTC; pin it to loc.
	parsed = parsed.Round(time.Second)
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc), nil
}
