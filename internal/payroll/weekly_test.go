package payroll

import (
	"testing"
	"time"
)

func computed(t *testing.T, policy PolicyFunc, punches ...Punch) []Shift {
	t.Helper()
	sorted, err := Normalize(punches, Filter{}, time.UTC)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	shifts, _ := Pair(sorted)
	shifts = ApplyDailyRules(shifts, policy, true)
	shifts = AllocateWeekly(shifts, policy, time.UTC)
	assertConserved(t, shifts)
	return shifts
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		at   time.Time
		want time.Time
	}{
		{at(1, 0, 0), at(1, 0, 0)},
		{at(3, 13, 0), at(1, 0, 0)},
		{time.Date(2024, 1, 7, 23, 59, 59, 999e6, time.UTC), at(1, 0, 0)},
		{at(8, 0, 0), at(8, 0, 0)},
	}
	for _, c := range cases {
		if got := WeekStart(c.at, time.UTC); !got.Equal(c.want) {
			t.Fatalf("expected week start %v for %v, got %v", c.want, c.at, got)
		}
	}

	central := time.FixedZone("CST", -6*3600)
	// Monday 02:00 UTC is still Sunday evening in CST.
	got := WeekStart(at(8, 2, 0), central)
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, central); !got.Equal(want) {
		t.Fatalf("expected local week start %v, got %v", want, got)
	}
}

func TestAllocateWeeklyExactlyAtCap(t *testing.T) {
	var punches []Punch
	for day := 1; day <= 5; day++ {
		punches = append(punches, in("a", at(day, 9, 0)), out("a", at(day, 17, 30)))
	}
	shifts := computed(t, defaultPolicies, punches...)
	for _, s := range shifts {
		if s.WeeklyOvertimeHours != 0 || !approx(s.RegularHours, 8) {
			t.Fatalf("expected 40 hour week to be fully regular, got %+v", s)
		}
	}
}

func TestAllocateWeeklyOneHourOverCap(t *testing.T) {
	policy := func(string) Policy { return PolicyFor(Employee{MaxDailyHours: hours(10)}) }
	var punches []Punch
	for day := 1; day <= 4; day++ {
		punches = append(punches, in("a", at(day, 9, 0)), out("a", at(day, 17, 30)))
	}
	punches = append(punches, in("a", at(5, 9, 0)), out("a", at(5, 18, 30)))
	shifts := computed(t, policy, punches...)

	total := 0.0
	for _, s := range shifts[:4] {
		if s.WeeklyOvertimeHours != 0 {
			t.Fatalf("expected no weekly overtime before the cap, got %+v", s)
		}
	}
	for _, s := range shifts {
		total += s.WeeklyOvertimeHours
	}
	last := shifts[4]
	if !approx(total, 1) || !approx(last.WeeklyOvertimeHours, 1) || !approx(last.RegularHours, 8) {
		t.Fatalf("expected exactly 1 hour weekly overtime on the crossing shift, got %+v", last)
	}
}

func TestAllocateWeeklyAppliesAfterDailySplit(t *testing.T) {
	shifts := computed(t, defaultPolicies,
		in("a", at(1, 9, 0)), out("a", at(1, 17, 30)),
		in("a", at(2, 9, 0)), out("a", at(2, 17, 30)),
		// 30.5 gross hours, 30 net
		in("a", at(3, 6, 0)), out("a", at(4, 12, 30)),
	)
	third := shifts[2]
	if !approx(third.NetHours, 30) {
		t.Fatalf("expected 30 net hours, got %v", third.NetHours)
	}
	if !approx(third.RegularHours, 8) || !approx(third.DailyOvertimeHours, 22) || third.WeeklyOvertimeHours != 0 {
		t.Fatalf("expected 8 regular, 22 daily, 0 weekly, got %+v", third)
	}
}

func TestAllocateWeeklyTracksDemandNotGrantedHours(t *testing.T) {
	policy := func(string) Policy {
		p := DefaultPolicy()
		p.WeeklyRegularCapHours = 10
		return p
	}
	shifts := AllocateWeekly([]Shift{
		{EmployeeID: "a", In: at(1, 9, 0), RegularPortion: 8, NetHours: 8},
		{EmployeeID: "a", In: at(2, 9, 0), RegularPortion: 8, NetHours: 8},
		{EmployeeID: "a", In: at(3, 9, 0), RegularPortion: 8, NetHours: 8},
	}, policy, time.UTC)
	assertConserved(t, shifts)
	if !approx(shifts[1].RegularHours, 2) || !approx(shifts[1].WeeklyOvertimeHours, 6) {
		t.Fatalf("expected crossing shift split 2/6, got %+v", shifts[1])
	}
	if shifts[2].RegularHours != 0 || !approx(shifts[2].WeeklyOvertimeHours, 8) {
		t.Fatalf("expected shift after cap to be all weekly overtime, got %+v", shifts[2])
	}
}

func TestAllocateWeeklyResetsOnMonday(t *testing.T) {
	policy := func(string) Policy {
		p := DefaultPolicy()
		p.WeeklyRegularCapHours = 8
		return p
	}
	shifts := AllocateWeekly([]Shift{
		{EmployeeID: "a", In: at(7, 9, 0), RegularPortion: 8, NetHours: 8},
		{EmployeeID: "a", In: at(8, 9, 0), RegularPortion: 8, NetHours: 8},
	}, policy, time.UTC)
	if shifts[1].WeeklyOvertimeHours != 0 {
		t.Fatalf("expected new week to start with a fresh cap, got %+v", shifts[1])
	}
	if shifts[0].WeekStart.Equal(shifts[1].WeekStart) {
		t.Fatalf("expected Sunday and Monday shifts in different weeks")
	}
}

func TestAllocateWeeklyEmployeesAreIndependent(t *testing.T) {
	policy := func(string) Policy {
		p := DefaultPolicy()
		p.WeeklyRegularCapHours = 8
		return p
	}
	shifts := AllocateWeekly([]Shift{
		{EmployeeID: "a", In: at(1, 9, 0), RegularPortion: 8, NetHours: 8},
		{EmployeeID: "b", In: at(1, 10, 0), RegularPortion: 8, NetHours: 8},
		{EmployeeID: "a", In: at(2, 9, 0), RegularPortion: 4, NetHours: 4},
	}, policy, time.UTC)
	if shifts[1].WeeklyOvertimeHours != 0 {
		t.Fatalf("expected b's first shift to be regular, got %+v", shifts[1])
	}
	if !approx(shifts[2].WeeklyOvertimeHours, 4) {
		t.Fatalf("expected a's second shift to be weekly overtime, got %+v", shifts[2])
	}
}

func TestAllocateWeeklyProcessesChronologically(t *testing.T) {
	policy := func(string) Policy {
		p := DefaultPolicy()
		p.WeeklyRegularCapHours = 8
		return p
	}
	// input deliberately out of order: Tuesday first
	shifts := AllocateWeekly([]Shift{
		{EmployeeID: "a", In: at(2, 9, 0), RegularPortion: 6, NetHours: 6},
		{EmployeeID: "a", In: at(1, 9, 0), RegularPortion: 6, NetHours: 6},
	}, policy, time.UTC)
	if shifts[1].WeeklyOvertimeHours != 0 || !approx(shifts[0].WeeklyOvertimeHours, 4) {
		t.Fatalf("expected Monday regular and Tuesday split, got %+v", shifts)
	}
}
