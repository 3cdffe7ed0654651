package timeclockcli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/phillip-england/timeclock/internal/apiapp"
	"github.com/phillip-england/timeclock/internal/envutil"
	"github.com/phillip-england/timeclock/internal/policyfile"
)

var ErrUsage = errors.New("usage")

func Execute(args []string) error {
	return execute(args, os.Stdout)
}

func execute(args []string, stdout io.Writer) error {
	if len(args) < 1 || isHelpArg(args[0]) {
		return usageError()
	}

	switch args[0] {
	case "setup":
		return runSetup(args[1:], stdout)
	case "report":
		return runReport(args[1:], stdout)
	case "serve":
		return runServe(args[1:])
	default:
		return usageError()
	}
}

func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: timeclock setup [--env-file .env] [--policies policies.toml] [--addr :8080] [--timezone zone] [--force]")
	fmt.Fprintln(w, "       timeclock report --punches <file> [--policies <toml>] [--roster <file>] [--employee id]")
	fmt.Fprintln(w, "                        [--start YYYY-MM-DD] [--end YYYY-MM-DD] [--no-breaks] [--tz zone]")
	fmt.Fprintln(w, "                        [--out path] [--format csv|xlsx|table]")
	fmt.Fprintln(w, "       timeclock serve [--addr :8080] [--policies <toml>]")
}

func usageError() error {
	return fmt.Errorf("%w: timeclock <setup|report|serve> [...]", ErrUsage)
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return usageError()
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

func runSetup(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	envPath := fs.String("env-file", ".env", "path to .env file")
	policyPath := fs.String("policies", "policies.toml", "path to the starter policy file")
	addr := fs.String("addr", ":8080", "api listen address")
	timezone := fs.String("timezone", "Local", "report timezone")
	force := fs.Bool("force", false, "overwrite existing files")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if _, err := policyfile.LoadLocation(*timezone); err != nil {
		return err
	}

	values := map[string]string{
		"API_ADDR":         *addr,
		"POLICY_FILE":      *policyPath,
		"REPORT_TIMEZONE":  *timezone,
		"MAX_UPLOAD_BYTES": "10485760",
	}
	if err := envutil.WriteDotEnv(*envPath, values, *force); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", *envPath)

	if _, err := os.Stat(*policyPath); err == nil && !*force {
		fmt.Fprintf(stdout, "kept existing %s\n", *policyPath)
		return nil
	}
	policies := policyfile.Default()
	policies.Timezone = *timezone
	if err := policies.Save(*policyPath); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", *policyPath)
	return nil
}

func runServe(args []string) error {
	if err := envutil.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg := apiapp.DefaultConfigFromEnv()

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "api listen address")
	fs.StringVar(&cfg.PolicyPath, "policies", cfg.PolicyPath, "policy file")
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "report timezone")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := apiapp.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
