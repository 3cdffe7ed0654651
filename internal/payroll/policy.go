package payroll

const (
	DefaultMaxDailyHours         = 8.0
	DefaultBreakDeductionMinutes = 30.0
	BreakTriggerHours            = 6.0
	WeeklyRegularCapHours        = 40.0
)

type Employee struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	MaxDailyHours         *float64 `json:"maxDailyHours,omitempty"`
	BreakDeductionMinutes *float64 `json:"breakDeductionMinutes,omitempty"`
}

func (e Employee) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

type Policy struct {
	MaxDailyHours         float64 `json:"maxDailyHours"`
	BreakDeductionMinutes float64 `json:"breakDeductionMinutes"`
	BreakTriggerHours     float64 `json:"breakTriggerHours"`
	WeeklyRegularCapHours float64 `json:"weeklyRegularCapHours"`
}

func DefaultPolicy() Policy {
	return Policy{
		MaxDailyHours:         DefaultMaxDailyHours,
		BreakDeductionMinutes: DefaultBreakDeductionMinutes,
		BreakTriggerHours:     BreakTriggerHours,
		WeeklyRegularCapHours: WeeklyRegularCapHours,
	}
}

// PolicyFor fills absent or unusable employee fields with the defaults.
// A zero break deduction is honored; a zero daily threshold is not.
func PolicyFor(emp Employee) Policy {
	p := DefaultPolicy()
	if emp.MaxDailyHours != nil && *emp.MaxDailyHours > 0 {
		p.MaxDailyHours = *emp.MaxDailyHours
	}
	if emp.BreakDeductionMinutes != nil && *emp.BreakDeductionMinutes >= 0 {
		p.BreakDeductionMinutes = *emp.BreakDeductionMinutes
	}
	return p
}

type Directory interface {
	Lookup(employeeID string) (Employee, bool)
}

type DirectoryFunc func(employeeID string) (Employee, bool)

func (f DirectoryFunc) Lookup(employeeID string) (Employee, bool) { return f(employeeID) }

type StaticDirectory map[string]Employee

func NewStaticDirectory(employees []Employee) StaticDirectory {
	dir := make(StaticDirectory, len(employees))
	for _, emp := range employees {
		dir[emp.ID] = emp
	}
	return dir
}

func (d StaticDirectory) Lookup(employeeID string) (Employee, bool) {
	emp, ok := d[employeeID]
	return emp, ok
}

// ResolvePolicy always returns a usable policy. When the directory has no
// record the error is a *MissingPolicyError and the policy is DefaultPolicy.
func ResolvePolicy(dir Directory, employeeID string) (Employee, Policy, error) {
	if dir != nil {
		if emp, ok := dir.Lookup(employeeID); ok {
			if emp.ID == "" {
				emp.ID = employeeID
			}
			return emp, PolicyFor(emp), nil
		}
	}
	return Employee{ID: employeeID}, DefaultPolicy(), &MissingPolicyError{EmployeeID: employeeID}
}

type PolicyFunc func(employeeID string) Policy
