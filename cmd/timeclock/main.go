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
			fmt.Fprintln(os.Stderr)
			timeclockcli.PrintUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
