// Package policyfile reads and writes the TOML run configuration: report
// timezone, the break-deduction toggle and per-employee overtime policies.
package policyfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/phillip-england/timeclock/internal/payroll"
)

type File struct {
	Timezone             string          `toml:"timezone"`
	ApplyBreakDeductions *bool           `toml:"apply_break_deductions"`
	Employees            []EmployeeEntry `toml:"employees"`
}

type EmployeeEntry struct {
	ID                    string   `toml:"id"`
	Name                  string   `toml:"name"`
	MaxDailyHours         *float64 `toml:"max_daily_hours,omitempty"`
	BreakDeductionMinutes *float64 `toml:"break_deduction_minutes,omitempty"`
}

func Default() *File {
	enabled := true
	return &File{
		Timezone:             "Local",
		ApplyBreakDeductions: &enabled,
		Employees:            []EmployeeEntry{},
	}
}

func Load(path string) (*File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func Decode(r io.Reader) (*File, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) Save(path string) error {
	if err := f.validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create policy directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create policy file: %w", err)
	}
	if err := toml.NewEncoder(file).Encode(f); err != nil {
		_ = file.Close()
		return fmt.Errorf("write policy file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close policy file: %w", err)
	}
	return nil
}

func (f *File) validate() error {
	if _, err := f.Location(); err != nil {
		return err
	}
	seen := map[string]struct{}{}
	for i, emp := range f.Employees {
		id := strings.TrimSpace(emp.ID)
		if id == "" {
			return fmt.Errorf("employee %d: id is required", i+1)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("employee %q is listed more than once", id)
		}
		seen[id] = struct{}{}
		if emp.MaxDailyHours != nil && *emp.MaxDailyHours <= 0 {
			return fmt.Errorf("employee %q: max_daily_hours must be positive", id)
		}
		if emp.BreakDeductionMinutes != nil && *emp.BreakDeductionMinutes < 0 {
			return fmt.Errorf("employee %q: break_deduction_minutes cannot be negative", id)
		}
	}
	return nil
}

func (f *File) Location() (*time.Location, error) {
	return LoadLocation(f.Timezone)
}

// BreakDeductions reports whether the run should deduct breaks. An absent
// setting means enabled.
func (f *File) BreakDeductions() bool {
	return f.ApplyBreakDeductions == nil || *f.ApplyBreakDeductions
}

func (f *File) EmployeeRecords() []payroll.Employee {
	out := make([]payroll.Employee, 0, len(f.Employees))
	for _, e := range f.Employees {
		out = append(out, payroll.Employee{
			ID:                    strings.TrimSpace(e.ID),
			Name:                  strings.TrimSpace(e.Name),
			MaxDailyHours:         e.MaxDailyHours,
			BreakDeductionMinutes: e.BreakDeductionMinutes,
		})
	}
	return out
}

func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// Merge layers overrides on top of base field by field. Records only in
// overrides are appended in their own order.
func Merge(base, overrides []payroll.Employee) []payroll.Employee {
	index := map[string]int{}
	out := make([]payroll.Employee, 0, len(base)+len(overrides))
	for _, emp := range base {
		if i, ok := index[emp.ID]; ok {
			out[i] = emp
			continue
		}
		index[emp.ID] = len(out)
		out = append(out, emp)
	}
	for _, emp := range overrides {
		i, ok := index[emp.ID]
		if !ok {
			index[emp.ID] = len(out)
			out = append(out, emp)
			continue
		}
		merged := out[i]
		if emp.Name != "" {
			merged.Name = emp.Name
		}
		if emp.MaxDailyHours != nil {
			merged.MaxDailyHours = emp.MaxDailyHours
		}
		if emp.BreakDeductionMinutes != nil {
			merged.BreakDeductionMinutes = emp.BreakDeductionMinutes
		}
		out[i] = merged
	}
	return out
}

// LoadOptional returns Default when path is empty.
func LoadOptional(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}
