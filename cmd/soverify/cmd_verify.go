package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	adapters "github.com/soverify/soverify/internal/domain-adapters/gateways"
	orchestrators "github.com/soverify/soverify/internal/domain-orchestrators"
	"github.com/soverify/soverify/internal/domain/services"
	"github.com/soverify/soverify/internal/external-adapters/yaml"
)

func runVerify(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	cfg := registerCheckFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: soverify verify [options] <path>

Run every check on the shared libraries under <path>: LOAD segment
alignment against the page-size limit, and required capability symbols
per the configured catalog.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Verify a build output tree with the defaults (16 KiB pages, .so files)
  soverify verify android/obj

  # Verify one library against a custom catalog using the NDK's readelf
  soverify verify --catalog catalog.yml --inspector readelf dist/libijkffmpeg.so
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	executeCheck(ctx, fs, cfg, true, true)
}

// executeCheck wires the verification stack and maps the verdict to the
// process exit code. Shared by verify, align and symbols.
func executeCheck(ctx context.Context, fs *flag.FlagSet, cfg *checkConfig, checkAlign, checkSymbols bool) {
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	path := fs.Arg(0)

	maxAlign, err := parseAlignValue(*cfg.maxAlign)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --max-align value %q: %v\n", *cfg.maxAlign, err)
		os.Exit(1)
	}

	logger := cfg.buildLogger()
	inspector, err := cfg.buildInspector(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	orch := orchestrators.NewVerifyOrchestrator(
		adapters.NewArtifactFinder(),
		services.NewVerifyService(inspector),
		yaml.NewCatalogRepository(*cfg.catalog),
		logger,
	)

	verdict, err := orch.Run(ctx, path, orchestrators.VerifyOptions{
		Pattern:      *cfg.pattern,
		MaxAlignment: maxAlign,
		CheckAlign:   checkAlign,
		CheckSymbols: checkSymbols,
		Jobs:         *cfg.jobs,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printVerdict(verdict)
	os.Exit(verdict.ExitCode())
}
