package payroll

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	clockLayout     = "15:04"
	timestampLayout = "2006-01-02 15:04"
)

type Report struct {
	Shifts       []Shift       `json:"shifts"`
	ShiftRows    []ShiftRow    `json:"shiftRows"`
	Summaries    []SummaryRow  `json:"summaries"`
	UnpairedRows []UnpairedRow `json:"unpairedRows"`
	Warnings     []string      `json:"warnings"`
}

type ShiftRow struct {
	EmployeeID          string `json:"employeeId"`
	EmployeeName        string `json:"employeeName"`
	Date                string `json:"date"`
	ClockIn             string `json:"clockIn"`
	ClockOut            string `json:"clockOut"`
	GrossHours          string `json:"grossHours"`
	BreakHours          string `json:"breakHours"`
	NetHours            string `json:"netHours"`
	RegularHours        string `json:"regularHours"`
	DailyOvertimeHours  string `json:"dailyOvertimeHours"`
	WeeklyOvertimeHours string `json:"weeklyOvertimeHours"`
	Notes               string `json:"notes"`
}

type SummaryRow struct {
	EmployeeID          string `json:"employeeId"`
	EmployeeName        string `json:"employeeName"`
	ShiftCount          int    `json:"shiftCount"`
	GrossHours          string `json:"grossHours"`
	BreakHours          string `json:"breakHours"`
	NetHours            string `json:"netHours"`
	RegularHours        string `json:"regularHours"`
	DailyOvertimeHours  string `json:"dailyOvertimeHours"`
	WeeklyOvertimeHours string `json:"weeklyOvertimeHours"`
}

type UnpairedRow struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Timestamp    string `json:"timestamp"`
	Kind         string `json:"kind"`
	Reason       string `json:"reason"`
}

type totals struct {
	name  string
	count int

	gross          float64
	brk            float64
	net            float64
	regular        float64
	dailyOvertime  float64
	weeklyOvertime float64
}

// Format renders computed shifts and unpaired punches into report rows.
// Row order follows the input order of both slices.
func Format(shifts []Shift, unpaired []UnpairedPunch, nameFor func(string) string, loc *time.Location) *Report {
	loc = locationOrLocal(loc)
	if nameFor == nil {
		nameFor = func(id string) string { return id }
	}

	report := &Report{
		Shifts:       shifts,
		ShiftRows:    make([]ShiftRow, 0, len(shifts)),
		UnpairedRows: make([]UnpairedRow, 0, len(unpaired)),
		Warnings:     []string{},
	}

	byEmployee := map[string]*totals{}
	for _, s := range shifts {
		name := nameFor(s.EmployeeID)
		in := s.In.In(loc)
		report.ShiftRows = append(report.ShiftRows, ShiftRow{
			EmployeeID:          s.EmployeeID,
			EmployeeName:        name,
			Date:                in.Format(dateLayout),
			ClockIn:             in.Format(clockLayout),
			ClockOut:            s.Out.In(loc).Format(clockLayout),
			GrossHours:          formatHours(s.GrossHours),
			BreakHours:          formatHours(s.BreakDeductionHours),
			NetHours:            formatHours(s.NetHours),
			RegularHours:        formatHours(s.RegularHours),
			DailyOvertimeHours:  formatHours(s.DailyOvertimeHours),
			WeeklyOvertimeHours: formatHours(s.WeeklyOvertimeHours),
			Notes:               shiftNotes(s),
		})

		t, ok := byEmployee[s.EmployeeID]
		if !ok {
			t = &totals{name: name}
			byEmployee[s.EmployeeID] = t
		}
		t.count++
		t.gross += s.GrossHours
		t.brk += s.BreakDeductionHours
		t.net += s.NetHours
		t.regular += s.RegularHours
		t.dailyOvertime += s.DailyOvertimeHours
		t.weeklyOvertime += s.WeeklyOvertimeHours
	}

	ids := make([]string, 0, len(byEmployee))
	for id := range byEmployee {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := byEmployee[ids[i]], byEmployee[ids[j]]
		if a.name == b.name {
			return ids[i] < ids[j]
		}
		return a.name < b.name
	})
	report.Summaries = make([]SummaryRow, 0, len(ids))
	for _, id := range ids {
		t := byEmployee[id]
		report.Summaries = append(report.Summaries, SummaryRow{
			EmployeeID:          id,
			EmployeeName:        t.name,
			ShiftCount:          t.count,
			GrossHours:          formatHours(t.gross),
			BreakHours:          formatHours(t.brk),
			NetHours:            formatHours(t.net),
			RegularHours:        formatHours(t.regular),
			DailyOvertimeHours:  formatHours(t.dailyOvertime),
			WeeklyOvertimeHours: formatHours(t.weeklyOvertime),
		})
	}

	for _, u := range unpaired {
		report.UnpairedRows = append(report.UnpairedRows, UnpairedRow{
			EmployeeID:   u.EmployeeID,
			EmployeeName: nameFor(u.EmployeeID),
			Timestamp:    u.Timestamp.In(loc).Format(timestampLayout),
			Kind:         u.Kind.Label(),
			Reason:       u.Reason,
		})
	}
	return report
}

func formatHours(hours float64) string {
	// avoid rendering tiny negative float noise as "-0.00"
	if math.Abs(hours) < 0.005 {
		hours = 0
	}
	return strconv.FormatFloat(hours, 'f', 2, 64)
}

func shiftNotes(s Shift) string {
	var notes []string
	if s.BreakDeductionHours > 0 {
		minutes := math.Round(s.BreakDeductionHours*60*100) / 100
		notes = append(notes, "Break deducted: "+strconv.FormatFloat(minutes, 'f', -1, 64)+"m")
	}
	if s.DailyOvertimeHours > 0 {
		notes = append(notes, fmt.Sprintf("Daily OT: %sh", formatHours(s.DailyOvertimeHours)))
	}
	if s.WeeklyOvertimeHours > 0 {
		notes = append(notes, fmt.Sprintf("Weekly OT: %sh", formatHours(s.WeeklyOvertimeHours)))
	}
	if s.DefaultPolicy {
		notes = append(notes, "Default policy")
	}
	switch {
	case s.NegativeDuration:
		notes = append(notes, "Negative duration")
	case s.Out.Equal(s.In):
		notes = append(notes, "Zero duration")
	}
	return strings.Join(notes, "; ")
}
