package payroll

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange  = errors.New("invalid range")
	ErrInvalidPunch  = errors.New("invalid punch")
	ErrMissingPolicy = errors.New("missing policy")
)

type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s", e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// InvalidPunchError reports a punch that cannot be interpreted at all.
// Index is the punch's position in the caller's input.
type InvalidPunchError struct {
	Index  int
	Reason string
}

func (e *InvalidPunchError) Error() string {
	return fmt.Sprintf("invalid punch at index %d: %s", e.Index, e.Reason)
}

func (e *InvalidPunchError) Unwrap() error { return ErrInvalidPunch }

// MissingPolicyError is recoverable: the run continues with DefaultPolicy.
type MissingPolicyError struct {
	EmployeeID string
}

func (e *MissingPolicyError) Error() string {
	return fmt.Sprintf("missing policy for employee %q", e.EmployeeID)
}

func (e *MissingPolicyError) Unwrap() error { return ErrMissingPolicy }
