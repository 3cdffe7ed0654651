package payroll

import "math"

// ApplyDailyRules computes gross, break, net and the daily regular/overtime
// split for each shift. Shifts are returned as a new slice.
func ApplyDailyRules(shifts []Shift, policyFor PolicyFunc, applyBreaks bool) []Shift {
	out := make([]Shift, len(shifts))
	for i, s := range shifts {
		p := policyFor(s.EmployeeID)

		s.GrossHours = s.Out.Sub(s.In).Hours()
		s.BreakDeductionHours = 0
		// strictly greater: a shift of exactly BreakTriggerHours keeps its break
		if applyBreaks && s.GrossHours > p.BreakTriggerHours {
			s.BreakDeductionHours = p.BreakDeductionMinutes / 60
		}
		s.NetHours = s.GrossHours - s.BreakDeductionHours
		s.RegularPortion = math.Min(s.NetHours, p.MaxDailyHours)
		s.DailyOvertimeHours = math.Max(0, s.NetHours-p.MaxDailyHours)

		s.RegularHours = s.RegularPortion
		s.WeeklyOvertimeHours = 0
		out[i] = s
	}
	return out
}
