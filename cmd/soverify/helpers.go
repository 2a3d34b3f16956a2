package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gookit/color"

	adapters "github.com/soverify/soverify/internal/domain-adapters/gateways"
	"github.com/soverify/soverify/internal/domain/entities"
	"github.com/soverify/soverify/internal/domain/interfaces"
	"github.com/soverify/soverify/internal/domain/interfaces/gateways"
	"github.com/soverify/soverify/internal/external-adapters/readelf"
)

// checkConfig carries the flags shared by the verification commands.
type checkConfig struct {
	maxAlign  *string
	pattern   *string
	catalog   *string
	inspector *string
	readelf   *string
	ndkRoot   *string
	jobs      *int
	verbose   *bool
}

func registerCheckFlags(fs *flag.FlagSet) *checkConfig {
	return &checkConfig{
		maxAlign:  fs.String("max-align", "0x4000", "Maximum allowed LOAD segment alignment (hex or decimal)"),
		pattern:   fs.String("pattern", ".so", "Filename match rule: exact name, or suffix when starting with '.'"),
		catalog:   fs.String("catalog", "", "Symbol catalog manifest (YAML); built-in catalog when empty"),
		inspector: fs.String("inspector", "native", "ELF inspector: 'native' (built-in parser) or 'readelf' (external tool)"),
		readelf:   fs.String("readelf", "", "Explicit readelf tool path (implies --inspector readelf)"),
		ndkRoot:   fs.String("ndk-root", defaultNDKRoot(), "Android NDK root used to locate llvm-readelf"),
		jobs:      fs.Int("jobs", 1, "Number of artifacts inspected concurrently"),
		verbose:   fs.Bool("verbose", false, "Enable debug logging"),
	}
}

func defaultNDKRoot() string {
	for _, key := range []string{"ANDROID_NDK_HOME", "ANDROID_NDK_ROOT", "NDK_ROOT"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func (c *checkConfig) buildLogger() interfaces.Logger {
	if *c.verbose {
		return &interfaces.StderrLogger{}
	}
	return &interfaces.NoOpLogger{}
}

// buildInspector wires the selected ELF inspector. The native parser needs
// no external tool; the readelf inspector resolves one deterministically.
func (c *checkConfig) buildInspector(logger interfaces.Logger) (gateways.Inspector, error) {
	kind := *c.inspector
	if *c.readelf != "" {
		kind = "readelf"
	}

	switch kind {
	case "", "native":
		return adapters.NewNativeInspector(), nil
	case "readelf":
		tool, err := readelf.Resolver{Override: *c.readelf, NDKRoot: *c.ndkRoot}.Resolve()
		if err != nil {
			return nil, err
		}
		logger.Debug("resolved inspection tool", interfaces.F("tool", tool))
		return readelf.NewInspector(tool, logger), nil
	default:
		return nil, fmt.Errorf("unknown inspector %q (want native or readelf)", kind)
	}
}

// parseAlignValue accepts 0x-prefixed hex or plain decimal.
func parseAlignValue(s string) (uint64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		return strconv.ParseUint(rest, 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// printVerdict renders the terminal summary: one line for the aggregate,
// then one line per fallback warning and per violating artifact.
func printVerdict(verdict *entities.Verdict) {
	switch verdict.Outcome {
	case entities.OutcomeNoArtifacts:
		color.Warn.Println("INCONCLUSIVE: no matching artifacts found")
	case entities.OutcomePass:
		color.Success.Printf("PASS: %d artifact(s) satisfy all checks\n", verdict.Artifacts)
	case entities.OutcomeFail:
		color.Error.Printf("FAIL: %d of %d artifact(s) violate checks\n",
			countViolatingArtifacts(verdict.Violations), verdict.Artifacts)
	}

	for _, note := range verdict.Fallbacks {
		color.Warn.Printf("  %s: passed via fallback symbol %s\n", note.Artifact, note.Matched)
	}
	for i := range verdict.Violations {
		v := &verdict.Violations[i]
		fmt.Printf("  %s: %s\n", v.Artifact, v.Message())
	}
}

func countViolatingArtifacts(violations []entities.Violation) int {
	seen := make(map[string]struct{})
	for _, v := range violations {
		seen[v.Artifact] = struct{}{}
	}
	return len(seen)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
