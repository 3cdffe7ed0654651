package payroll

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Input is everything one report run needs. Break deductions are applied
// unless SkipBreakDeductions is set. A nil Location means time.Local.
type Input struct {
	Punches             []Punch
	Directory           Directory
	Filter              Filter
	SkipBreakDeductions bool
	Location            *time.Location
}

// Generate runs normalize, pair, daily rules, weekly allocation and
// formatting in that order. Only structural problems (bad range, malformed
// punch) return an error; per-record anomalies end up in the report.
func Generate(in Input) (*Report, error) {
	loc := locationOrLocal(in.Location)

	sorted, err := Normalize(in.Punches, in.Filter, loc)
	if err != nil {
		return nil, err
	}

	employees := map[string]Employee{}
	policies := map[string]Policy{}
	defaulted := map[string]bool{}
	resolve := func(id string) {
		if _, ok := policies[id]; ok {
			return
		}
		emp, policy, err := ResolvePolicy(in.Directory, id)
		var missing *MissingPolicyError
		if errors.As(err, &missing) {
			defaulted[id] = true
		}
		employees[id] = emp
		policies[id] = policy
	}
	for _, p := range sorted {
		resolve(p.EmployeeID)
	}
	policyFor := func(id string) Policy {
		resolve(id)
		return policies[id]
	}

	shifts, unpaired := Pair(sorted)
	shifts = ApplyDailyRules(shifts, policyFor, !in.SkipBreakDeductions)
	shifts = AllocateWeekly(shifts, policyFor, loc)
	for i := range shifts {
		shifts[i].DefaultPolicy = defaulted[shifts[i].EmployeeID]
	}

	report := Format(shifts, unpaired, func(id string) string {
		return employees[id].DisplayName()
	}, loc)

	ids := make([]string, 0, len(defaulted))
	for id := range defaulted {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"no policy for employee %s; using defaults (%.0fh daily, %.0fm break)",
			id, DefaultMaxDailyHours, DefaultBreakDeductionMinutes,
		))
	}
	return report, nil
}
