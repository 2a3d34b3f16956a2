package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "verify":
		runVerify(ctx, os.Args[2:])
	case "align":
		runAlign(ctx, os.Args[2:])
	case "symbols":
		runSymbols(ctx, os.Args[2:])
	case "inspect":
		runInspect(ctx, os.Args[2:])
	case "checksum":
		runChecksum(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`soverify - build verifier for native shared libraries

Usage:
  soverify <command> [options]

Commands:
  verify    Run alignment and required-symbol checks on artifacts
  align     Check LOAD segment alignment only
  symbols   Check required symbols only
  inspect   Dump alignment and symbol facts for a single artifact
  checksum  Verify checksums and GPG signatures of build artifacts

Exit codes for verify/align/symbols:
  0  all artifacts satisfy all checks
  1  at least one artifact violates a check
  2  no matching artifacts were found (misconfiguration, not a defect)

Use "soverify <command> --help" for more information about a command.`)
}
