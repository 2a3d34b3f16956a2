package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func runAlign(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("align", flag.ExitOnError)
	cfg := registerCheckFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: soverify align [options] <path>

Check that no LOAD segment of any shared library under <path> requires
alignment stricter than the configured limit. The limit is an inclusive
ceiling: a segment aligned exactly to it passes.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # 16 KiB page readiness for every .so in a build tree
  soverify align --max-align 0x4000 android/obj
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	executeCheck(ctx, fs, cfg, true, false)
}
