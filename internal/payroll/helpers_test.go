package payroll

import (
	"math"
	"testing"
	"time"
)

// 2024-01-01 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func in(id string, ts time.Time) Punch  { return Punch{EmployeeID: id, Kind: ClockIn, Timestamp: ts} }
func out(id string, ts time.Time) Punch { return Punch{EmployeeID: id, Kind: ClockOut, Timestamp: ts} }

func hours(v float64) *float64 { return &v }

func defaultPolicies(string) Policy { return DefaultPolicy() }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func assertConserved(t *testing.T, shifts []Shift) {
	t.Helper()
	for i, s := range shifts {
		if !approx(s.RegularHours+s.DailyOvertimeHours+s.WeeklyOvertimeHours, s.NetHours) {
			t.Fatalf("expected shift %d to conserve net hours %.6f, got regular %.6f daily %.6f weekly %.6f",
				i, s.NetHours, s.RegularHours, s.DailyOvertimeHours, s.WeeklyOvertimeHours)
		}
	}
}
