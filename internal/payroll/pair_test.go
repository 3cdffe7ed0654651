package payroll

import (
	"fmt"
	"testing"
	"time"
)

func TestPairGreedyNearestMatch(t *testing.T) {
	shifts, unpaired := Pair([]Punch{
		in("a", at(1, 8, 0)),
		in("a", at(1, 9, 0)),
		out("a", at(1, 17, 0)),
	})
	if len(shifts) != 1 {
		t.Fatalf("expected 1 shift, got %d", len(shifts))
	}
	if !shifts[0].In.Equal(at(1, 8, 0)) || !shifts[0].Out.Equal(at(1, 17, 0)) {
		t.Fatalf("expected earliest clock in to be matched, got %v-%v", shifts[0].In, shifts[0].Out)
	}
	if len(unpaired) != 1 || !unpaired[0].Timestamp.Equal(at(1, 9, 0)) || unpaired[0].Kind != ClockIn {
		t.Fatalf("expected 09:00 clock in to be unpaired, got %+v", unpaired)
	}
}

func TestPairLoneClockOutIsUnpaired(t *testing.T) {
	shifts, unpaired := Pair([]Punch{out("a", at(1, 17, 0))})
	if len(shifts) != 0 {
		t.Fatalf("expected no shifts, got %d", len(shifts))
	}
	if len(unpaired) != 1 || unpaired[0].Kind != ClockOut || unpaired[0].Reason != reasonNoClockIn {
		t.Fatalf("expected lone clock out to be unpaired, got %+v", unpaired)
	}
}

func TestPairTrailingClockInIsUnpaired(t *testing.T) {
	shifts, unpaired := Pair([]Punch{
		in("a", at(1, 9, 0)),
		out("a", at(1, 17, 0)),
		in("a", at(2, 9, 0)),
	})
	if len(shifts) != 1 {
		t.Fatalf("expected 1 shift, got %d", len(shifts))
	}
	if len(unpaired) != 1 || unpaired[0].Reason != reasonNoClockOut {
		t.Fatalf("expected trailing clock in to be unpaired, got %+v", unpaired)
	}
}

func TestPairInterleavedEmployees(t *testing.T) {
	shifts, unpaired := Pair([]Punch{
		in("a", at(1, 8, 0)),
		in("b", at(1, 9, 0)),
		out("b", at(1, 12, 0)),
		out("c", at(1, 13, 0)),
		out("a", at(1, 16, 0)),
	})
	if len(shifts) != 2 {
		t.Fatalf("expected 2 shifts, got %d", len(shifts))
	}
	if shifts[0].EmployeeID != "a" || shifts[1].EmployeeID != "b" {
		t.Fatalf("expected shifts ordered by clock in, got %s then %s", shifts[0].EmployeeID, shifts[1].EmployeeID)
	}
	if !shifts[0].Out.Equal(at(1, 16, 0)) {
		t.Fatalf("expected a to pair across other employees' punches")
	}
	if len(unpaired) != 1 || unpaired[0].EmployeeID != "c" {
		t.Fatalf("expected only c's punch unpaired, got %+v", unpaired)
	}
}

func TestPairZeroDurationIsKept(t *testing.T) {
	sorted, err := Normalize([]Punch{in("a", at(1, 9, 0)), out("a", at(1, 9, 0))}, Filter{}, time.UTC)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	shifts, unpaired := Pair(sorted)
	if len(shifts) != 1 || len(unpaired) != 0 {
		t.Fatalf("expected zero duration shift to be paired, got %d shifts %d unpaired", len(shifts), len(unpaired))
	}
	if shifts[0].NegativeDuration {
		t.Fatalf("expected zero duration not to be flagged negative")
	}
}

func TestPairFlagsNegativeDuration(t *testing.T) {
	shifts, _ := Pair([]Punch{in("a", at(1, 17, 0)), out("a", at(1, 9, 0))})
	if len(shifts) != 1 || !shifts[0].NegativeDuration {
		t.Fatalf("expected negative duration shift to be paired and flagged, got %+v", shifts)
	}
}

func TestPairIsDeterministicAcrossInputOrder(t *testing.T) {
	base := []Punch{
		in("a", at(1, 8, 0)),
		in("b", at(1, 8, 30)),
		in("a", at(1, 9, 0)),
		out("b", at(1, 12, 0)),
		out("a", at(1, 16, 0)),
		out("a", at(1, 17, 0)),
		out("c", at(1, 18, 0)),
	}
	signature := func(punches []Punch) string {
		sorted, err := Normalize(punches, Filter{}, time.UTC)
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		shifts, unpaired := Pair(sorted)
		return fmt.Sprintf("%v|%v", shifts, unpaired)
	}

	want := signature(base)
	for shift := 1; shift < len(base); shift++ {
		rotated := append(append([]Punch{}, base[shift:]...), base[:shift]...)
		if got := signature(rotated); got != want {
			t.Fatalf("expected same pairing for rotation %d\nwant %s\ngot  %s", shift, want, got)
		}
	}
	reversed := make([]Punch, len(base))
	for i, p := range base {
		reversed[len(base)-1-i] = p
	}
	if got := signature(reversed); got != want {
		t.Fatalf("expected same pairing for reversed input")
	}
}
