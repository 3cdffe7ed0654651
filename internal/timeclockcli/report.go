package timeclockcli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/phillip-england/timeclock/internal/payroll"
	"github.com/phillip-england/timeclock/internal/policyfile"
	"github.com/phillip-england/timeclock/internal/punchimport"
	"github.com/phillip-england/timeclock/internal/reportexport"
)

type reportOptions struct {
	punchesPath string
	policyPath  string
	rosterPath  string
	employeeID  string
	start       string
	end         string
	noBreaks    bool
	timezone    string
	outPath     string
	format      string
}

func runReport(args []string, stdout io.Writer) error {
	var opts reportOptions
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.StringVar(&opts.punchesPath, "punches", "", "punch file (.xlsx, .xls or .csv)")
	fs.StringVar(&opts.policyPath, "policies", "", "TOML policy file")
	fs.StringVar(&opts.rosterPath, "roster", "", "employee roster (.xlsx, .xls or .csv)")
	fs.StringVar(&opts.employeeID, "employee", "", "only report this employee id")
	fs.StringVar(&opts.start, "start", "", "first day, YYYY-MM-DD")
	fs.StringVar(&opts.end, "end", "", "last day, YYYY-MM-DD")
	fs.BoolVar(&opts.noBreaks, "no-breaks", false, "skip break deductions")
	fs.StringVar(&opts.timezone, "tz", "", "report timezone (defaults to the policy file, then Local)")
	fs.StringVar(&opts.outPath, "out", "", "output path; .xz compresses (defaults to stdout)")
	fs.StringVar(&opts.format, "format", "", "csv, xlsx or table")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(opts.punchesPath) == "" {
		return fmt.Errorf("%w: --punches is required", ErrUsage)
	}

	report, err := buildReport(opts)
	if err != nil {
		return err
	}
	log.Printf("generated report: %d shifts, %d unpaired", len(report.ShiftRows), len(report.UnpairedRows))
	for _, warning := range report.Warnings {
		log.Printf("warning: %s", warning)
	}

	format, err := outputFormat(opts)
	if err != nil {
		return err
	}
	if opts.outPath == "" {
		return reportexport.Write(stdout, report, format)
	}
	if err := reportexport.WriteFile(opts.outPath, report, format); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", opts.outPath)
	return nil
}

func buildReport(opts reportOptions) (*payroll.Report, error) {
	policies, err := policyfile.LoadOptional(opts.policyPath)
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	timezone := opts.timezone
	if timezone == "" {
		timezone = policies.Timezone
	}
	loc, err := policyfile.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}

	employees := policies.EmployeeRecords()
	if opts.rosterPath != "" {
		roster, err := readRosterFile(opts.rosterPath)
		if err != nil {
			return nil, err
		}
		employees = policyfile.Merge(roster, employees)
	}

	punches, err := readPunchFile(opts.punchesPath, loc)
	if err != nil {
		return nil, err
	}

	filter := payroll.Filter{EmployeeID: strings.TrimSpace(opts.employeeID)}
	if filter.Start, err = parseDay("--start", opts.start, loc); err != nil {
		return nil, err
	}
	if filter.End, err = parseDay("--end", opts.end, loc); err != nil {
		return nil, err
	}

	report, err := payroll.Generate(payroll.Input{
		Punches:             punches,
		Directory:           payroll.NewStaticDirectory(employees),
		Filter:              filter,
		SkipBreakDeductions: opts.noBreaks || !policies.BreakDeductions(),
		Location:            loc,
	})
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	return report, nil
}

func outputFormat(opts reportOptions) (reportexport.Format, error) {
	if opts.format != "" {
		return reportexport.ParseFormat(opts.format)
	}
	if opts.outPath == "" {
		return reportexport.FormatTable, nil
	}
	return reportexport.FormatFromPath(opts.outPath), nil
}

func readPunchFile(path string, loc *time.Location) ([]payroll.Punch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open punches: %w", err)
	}
	defer file.Close()
	punches, err := punchimport.ReadPunches(file, path, loc)
	if err != nil {
		return nil, fmt.Errorf("read punches %s: %w", path, err)
	}
	return punches, nil
}

func readRosterFile(path string) ([]payroll.Employee, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer file.Close()
	employees, err := punchimport.ReadRoster(file, path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	return employees, nil
}

func parseDay(flagName, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, errors.New(flagName + " must use YYYY-MM-DD")
	}
	return day, nil
}
