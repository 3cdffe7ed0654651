package payroll

import (
	"math"
	"sort"
	"time"
)

type weekKey struct {
	employeeID string
	start      int64
}

// WeekStart returns Monday 00:00 of the week containing t, in loc.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	loc = locationOrLocal(loc)
	local := t.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	y, m, d := local.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}

// AllocateWeekly moves regular hours into weekly overtime once an
// employee's week has consumed its cap. It must run after ApplyDailyRules
// over the complete shift set.
//
// The running total per week tracks every regular-eligible hour seen, not
// the hours actually granted as regular. Once demand reaches the cap, all
// further regular-eligible hours that week are weekly overtime.
func AllocateWeekly(shifts []Shift, policyFor PolicyFunc, loc *time.Location) []Shift {
	loc = locationOrLocal(loc)
	out := make([]Shift, len(shifts))
	copy(out, shifts)

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return out[order[a]].In.Before(out[order[b]].In)
	})

	cumulative := map[weekKey]float64{}
	for _, idx := range order {
		s := &out[idx]
		p := policyFor(s.EmployeeID)
		s.WeekStart = WeekStart(s.In, loc)
		key := weekKey{employeeID: s.EmployeeID, start: s.WeekStart.Unix()}

		r := s.RegularPortion
		remaining := p.WeeklyRegularCapHours - cumulative[key]
		if remaining <= 0 {
			s.RegularHours = 0
			s.WeeklyOvertimeHours = r
		} else {
			s.RegularHours = math.Min(r, remaining)
			s.WeeklyOvertimeHours = r - s.RegularHours
		}
		cumulative[key] += r
	}
	return out
}
