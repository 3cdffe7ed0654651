// Package payroll turns raw clock-in/clock-out punches into a shift ledger
// with break deductions, daily overtime and weekly overtime.
//
// Every stage is a pure function over its inputs. A run holds no state
// beyond its own locals, so concurrent calls to Generate are safe as long
// as callers do not mutate the punch slice or directory while it runs.
package payroll

import (
	"fmt"
	"strings"
	"time"
)

type PunchKind string

const (
	ClockIn  PunchKind = "in"
	ClockOut PunchKind = "out"
)

func (k PunchKind) Label() string {
	switch k {
	case ClockIn:
		return "Clock In"
	case ClockOut:
		return "Clock Out"
	default:
		return string(k)
	}
}

func ParsePunchKind(raw string) (PunchKind, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.NewReplacer("_", " ", "-", " ").Replace(value)
	value = strings.Join(strings.Fields(value), " ")
	switch value {
	case "in", "clock in", "clockin", "punch in", "i":
		return ClockIn, nil
	case "out", "clock out", "clockout", "punch out", "o":
		return ClockOut, nil
	default:
		return "", fmt.Errorf("unknown punch kind %q", raw)
	}
}

type Punch struct {
	EmployeeID string    `json:"employeeId"`
	Kind       PunchKind `json:"kind"`
	Timestamp  time.Time `json:"timestamp"`
}

type UnpairedPunch struct {
	Punch
	Reason string `json:"reason"`
}

const (
	reasonNoClockOut  = "no matching clock out"
	reasonNoClockIn   = "no open clock in"
	reasonShiftIsOpen = "clock in while a shift is already open"
)
