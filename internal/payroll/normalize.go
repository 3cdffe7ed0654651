package payroll

import (
	"sort"
	"strings"
	"time"
)

// Filter narrows a run. Zero values are unbounded. Start and End are
// calendar dates; End includes its whole day.
type Filter struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
}

func (f Filter) bounds(loc *time.Location) (time.Time, time.Time, error) {
	var from, until time.Time
	if !f.Start.IsZero() {
		from = startOfDay(f.Start, loc)
	}
	if !f.End.IsZero() {
		until = startOfDay(f.End, loc).AddDate(0, 0, 1)
	}
	if !f.Start.IsZero() && !f.End.IsZero() && from.After(startOfDay(f.End, loc)) {
		return time.Time{}, time.Time{}, &InvalidRangeError{Start: f.Start, End: f.End}
	}
	return from, until, nil
}

// Normalize validates punches, applies the filter and returns a copy sorted
// by timestamp. Equal timestamps keep their input order.
func Normalize(punches []Punch, f Filter, loc *time.Location) ([]Punch, error) {
	loc = locationOrLocal(loc)
	from, until, err := f.bounds(loc)
	if err != nil {
		return nil, err
	}
	employeeID := strings.TrimSpace(f.EmployeeID)

	out := make([]Punch, 0, len(punches))
	for i, p := range punches {
		if strings.TrimSpace(p.EmployeeID) == "" {
			return nil, &InvalidPunchError{Index: i, Reason: "employee id is required"}
		}
		if p.Kind != ClockIn && p.Kind != ClockOut {
			return nil, &InvalidPunchError{Index: i, Reason: "kind must be in or out"}
		}
		if p.Timestamp.IsZero() {
			return nil, &InvalidPunchError{Index: i, Reason: "timestamp is required"}
		}
		if employeeID != "" && p.EmployeeID != employeeID {
			continue
		}
		if !from.IsZero() && p.Timestamp.Before(from) {
			continue
		}
		if !until.IsZero() && !p.Timestamp.Before(until) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func locationOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
