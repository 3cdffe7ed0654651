package envutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("expected nil error for missing file, got %v", err)
	}
}

func TestWriteThenLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	values := map[string]string{
		"TIMECLOCK_TEST_ADDR":     ":9090",
		"TIMECLOCK_TEST_TIMEZONE": "America/Chicago",
	}
	if err := WriteDotEnv(path, values, false); err != nil {
		t.Fatalf("write env: %v", err)
	}
	if err := WriteDotEnv(path, values, false); err == nil {
		t.Fatalf("expected error when file exists without overwrite")
	}
	if err := WriteDotEnv(path, values, true); err != nil {
		t.Fatalf("overwrite env: %v", err)
	}

	t.Setenv("TIMECLOCK_TEST_ADDR", ":7070")
	t.Setenv("TIMECLOCK_TEST_TIMEZONE", "")
	os.Unsetenv("TIMECLOCK_TEST_TIMEZONE")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("TIMECLOCK_TEST_ADDR"); got != ":7070" {
		t.Fatalf("expected existing value to win, got %q", got)
	}
	if got := os.Getenv("TIMECLOCK_TEST_TIMEZONE"); got != "America/Chicago" {
		t.Fatalf("expected America/Chicago, got %q", got)
	}
}
