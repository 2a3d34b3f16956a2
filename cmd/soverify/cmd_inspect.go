package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/soverify/soverify/internal/domain/entities"
	"github.com/soverify/soverify/internal/domain/services"
	"github.com/soverify/soverify/internal/external-adapters/yaml"
)

func runInspect(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	cfg := registerCheckFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: soverify inspect [options] <file>

Dump the facts the verifier would base its verdict on for one artifact:
the maximum LOAD segment alignment and, when a catalog rule applies, the
presence of each symbol the rule names. Diagnostic only, always exits 0
unless the file cannot be inspected.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: file path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	path := fs.Arg(0)

	if err := executeInspect(ctx, path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func executeInspect(ctx context.Context, path string, cfg *checkConfig) error {
	logger := cfg.buildLogger()
	inspector, err := cfg.buildInspector(logger)
	if err != nil {
		return err
	}

	artifact := entities.Artifact{Name: filepath.Base(path), Path: path}
	svc := services.NewVerifyService(inspector)

	maxAlign, err := svc.MaxLoadAlignment(ctx, artifact)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", artifact.Path)
	fmt.Printf("  max LOAD alignment: 0x%x\n", maxAlign)

	catalog, err := yaml.NewCatalogRepository(*cfg.catalog).LoadCatalog(ctx)
	if err != nil {
		return err
	}

	rule, ok := catalog.RuleFor(artifact.Name)
	if !ok {
		fmt.Println("  no symbol rule applies")
		return nil
	}

	names, err := inspector.SymbolNames(ctx, artifact.Path)
	if err != nil {
		return err
	}

	watched := make(map[string]struct{})
	for _, s := range rule.Require {
		watched[s] = struct{}{}
	}
	for _, set := range rule.AnyOf {
		for _, s := range set {
			watched[s] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(watched))
	for s := range watched {
		sorted = append(sorted, s)
	}
	sort.Strings(sorted)

	fmt.Printf("  symbol rule: %s\n", rule.Match)
	for _, s := range sorted {
		if _, present := names[s]; present {
			fmt.Printf("    present  %s\n", s)
		} else {
			fmt.Printf("    absent   %s\n", s)
		}
	}
	return nil
}
