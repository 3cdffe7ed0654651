package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/phillip-england/timeclock/internal/timeclockcli"
)

func main() {
	if err := timeclockcli.Execute(os.Args[1:]); err != nil {
		if errors.Is(err, timeclockcli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, "usage: timeclock report --punches <file> [--policies policies.toml] [--out payroll.csv]")
			fmt.Fprintln(os.Stderr, "       timeclock setup [--timezone zone] [--force]")
			fmt.Fprintln(os.Stderr, "       timeclock serve [--addr :8080]")
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
