package payroll

import (
	"sort"
	"time"
)

type Shift struct {
	EmployeeID          string    `json:"employeeId"`
	In                  time.Time `json:"in"`
	Out                 time.Time `json:"out"`
	WeekStart           time.Time `json:"weekStart"`
	GrossHours          float64   `json:"grossHours"`
	BreakDeductionHours float64   `json:"breakDeductionHours"`
	NetHours            float64   `json:"netHours"`
	RegularPortion      float64   `json:"regularPortion"`
	RegularHours        float64   `json:"regularHours"`
	DailyOvertimeHours  float64   `json:"dailyOvertimeHours"`
	WeeklyOvertimeHours float64   `json:"weeklyOvertimeHours"`
	NegativeDuration    bool      `json:"negativeDuration,omitempty"`
	DefaultPolicy       bool      `json:"defaultPolicy,omitempty"`
}

// Pair matches each clock in with the first later clock out for the same
// employee. Same-employee clock ins that arrive while a shift is open are
// skipped over and reported unpaired, as is any clock out with no open
// clock in. Punches of other employees never affect a match.
//
// sorted must already be in the order produced by Normalize. Shifts come
// back ordered by clock in; unpaired punches in input order.
func Pair(sorted []Punch) ([]Shift, []UnpairedPunch) {
	type pairedShift struct {
		inIdx int
		shift Shift
	}
	type unpaired struct {
		idx   int
		punch UnpairedPunch
	}

	open := map[string]int{}
	var paired []pairedShift
	var orphans []unpaired

	for i, p := range sorted {
		switch p.Kind {
		case ClockIn:
			if _, ok := open[p.EmployeeID]; ok {
				orphans = append(orphans, unpaired{idx: i, punch: UnpairedPunch{Punch: p, Reason: reasonShiftIsOpen}})
				continue
			}
			open[p.EmployeeID] = i
		case ClockOut:
			inIdx, ok := open[p.EmployeeID]
			if !ok {
				orphans = append(orphans, unpaired{idx: i, punch: UnpairedPunch{Punch: p, Reason: reasonNoClockIn}})
				continue
			}
			delete(open, p.EmployeeID)
			in := sorted[inIdx]
			paired = append(paired, pairedShift{
				inIdx: inIdx,
				shift: Shift{
					EmployeeID:       p.EmployeeID,
					In:               in.Timestamp,
					Out:              p.Timestamp,
					NegativeDuration: p.Timestamp.Before(in.Timestamp),
				},
			})
		}
	}
	for _, idx := range open {
		orphans = append(orphans, unpaired{idx: idx, punch: UnpairedPunch{Punch: sorted[idx], Reason: reasonNoClockOut}})
	}

	sort.Slice(paired, func(i, j int) bool { return paired[i].inIdx < paired[j].inIdx })
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].idx < orphans[j].idx })

	shifts := make([]Shift, len(paired))
	for i, ps := range paired {
		shifts[i] = ps.shift
	}
	out := make([]UnpairedPunch, len(orphans))
	for i, o := range orphans {
		out[i] = o.punch
	}
	return shifts, out
}
