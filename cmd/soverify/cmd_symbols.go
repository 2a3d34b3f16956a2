package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func runSymbols(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("symbols", flag.ExitOnError)
	cfg := registerCheckFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: soverify symbols [options] <path>

Check that every shared library under <path> exports the symbols its
catalog rule requires. Missing primary evidence is tolerated when a
fallback set matches (reported as a warning, not a failure).

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Confirm HTTPS/TLS support survived the FFmpeg build
  soverify symbols dist/libijkffmpeg.so

  # Use a project-specific catalog
  soverify symbols --catalog catalog.yml android/obj
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	executeCheck(ctx, fs, cfg, false, true)
}
