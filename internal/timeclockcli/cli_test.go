package timeclockcli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phillip-england/timeclock/internal/policyfile"
	"github.com/phillip-england/timeclock/internal/reportexport"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const weekOfPunches = "Employee ID,Kind,Timestamp\n" +
	"E1,in,2024-01-01 08:00\nE1,out,2024-01-01 18:30\n" +
	"E1,in,2024-01-02 09:00\nE1,out,2024-01-02 17:00\n" +
	"E2,in,2024-01-02 09:00\n"

func TestExecuteUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"bogus"}, {"--help"}, {"report"}, {"report", "--nope"}} {
		err := execute(args, io.Discard)
		if !errors.Is(err, ErrUsage) {
			t.Fatalf("expected usage error for %v, got %v", args, err)
		}
	}

	var buf bytes.Buffer
	PrintUsage(&buf)
	if !strings.Contains(buf.String(), "timeclock report --punches") {
		t.Fatalf("unexpected usage text %q", buf.String())
	}
}

func TestReportToStdout(t *testing.T) {
	dir := t.TempDir()
	punches := writeFile(t, dir, "punches.csv", weekOfPunches)
	policies := writeFile(t, dir, "policies.toml", "timezone = \"UTC\"\n\n[[employees]]\nid = \"E1\"\nname = \"Jane Doe\"\n")

	var out bytes.Buffer
	if err := execute([]string{"report", "--punches", punches, "--policies", policies, "--format", "csv"}, &out); err != nil {
		t.Fatalf("report: %v", err)
	}
	lines := strings.Split(out.String(), "\n")
	if !strings.HasPrefix(lines[1], "Jane Doe,E1,2024-01-01,08:00,18:30,10.50,0.50,10.00,8.00,2.00,0.00") {
		t.Fatalf("unexpected first shift line %q", lines[1])
	}
	if !strings.Contains(out.String(), "E2,E2,2024-01-02 09:00,Clock In,no matching clock out") {
		t.Fatalf("expected unpaired clock in for E2, got:\n%s", out.String())
	}
}

func TestReportFiltersAndSkipsBreaks(t *testing.T) {
	dir := t.TempDir()
	punches := writeFile(t, dir, "punches.csv", weekOfPunches)

	var out bytes.Buffer
	args := []string{"report", "--punches", punches, "--tz", "UTC", "--employee", "E1", "--start", "2024-01-02", "--end", "2024-01-02", "--no-breaks", "--format", "csv"}
	if err := execute(args, &out); err != nil {
		t.Fatalf("report: %v", err)
	}
	lines := strings.Split(out.String(), "\n")
	if !strings.HasPrefix(lines[1], "E1,E1,2024-01-02,09:00,17:00,8.00,0.00,8.00,8.00,0.00,0.00") {
		t.Fatalf("unexpected shift line %q", lines[1])
	}
	if strings.Contains(out.String(), "2024-01-01") || strings.Contains(out.String(), "E2") {
		t.Fatalf("expected filtered output, got:\n%s", out.String())
	}
}

func TestReportRejectsInvertedRange(t *testing.T) {
	dir := t.TempDir()
	punches := writeFile(t, dir, "punches.csv", weekOfPunches)
	err := execute([]string{"report", "--punches", punches, "--tz", "UTC", "--start", "2024-01-05", "--end", "2024-01-01"}, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "generate report") {
		t.Fatalf("expected generate report error, got %v", err)
	}
}

func TestReportToCompressedFile(t *testing.T) {
	dir := t.TempDir()
	punches := writeFile(t, dir, "punches.csv", weekOfPunches)
	roster := writeFile(t, dir, "roster.csv", "Employee ID,Employee Name,Max Daily Hours\nE1,\"Doe, Jane\",10\n")
	outPath := filepath.Join(dir, "out", "payroll.csv.xz")

	var out bytes.Buffer
	if err := execute([]string{"report", "--punches", punches, "--roster", roster, "--tz", "UTC", "--out", outPath}, &out); err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out.String(), "wrote "+outPath) {
		t.Fatalf("unexpected output %q", out.String())
	}

	rc, err := reportexport.OpenReport(outPath)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(raw), "Jane Doe,E1,2024-01-01,08:00,18:30,10.50,0.50,10.00,10.00,0.00,0.00") {
		t.Fatalf("expected roster policy to apply, got:\n%s", raw)
	}
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	policyPath := filepath.Join(dir, "config", "policies.toml")

	var out bytes.Buffer
	args := []string{"setup", "--env-file", envPath, "--policies", policyPath, "--timezone", "America/Chicago"}
	if err := execute(args, &out); err != nil {
		t.Fatalf("setup: %v", err)
	}
	raw, err := os.ReadFile(envPath)
	if err != nil {
		t.Fatalf("read env: %v", err)
	}
	if !strings.Contains(string(raw), "REPORT_TIMEZONE") || !strings.Contains(string(raw), "America/Chicago") {
		t.Fatalf("unexpected env file:\n%s", raw)
	}
	policies, err := policyfile.Load(policyPath)
	if err != nil {
		t.Fatalf("load policies: %v", err)
	}
	if policies.Timezone != "America/Chicago" {
		t.Fatalf("expected America/Chicago, got %q", policies.Timezone)
	}

	if err := execute(args, io.Discard); err == nil {
		t.Fatalf("expected error when .env exists without --force")
	}
	if err := execute(append(args, "--force"), io.Discard); err != nil {
		t.Fatalf("setup --force: %v", err)
	}
}
