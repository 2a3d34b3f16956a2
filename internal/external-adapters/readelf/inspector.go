package readelf

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/soverify/soverify/internal/domain/entities"
	"github.com/soverify/soverify/internal/domain/interfaces"
)

// Inspector implements the domain Inspector gateway by invoking a
// readelf-class tool as an isolated child process per call.
//
// Wide output (-W) is requested first because it keeps each program-header
// row on one line; tools or versions that reject the flag are retried in
// narrow mode before the invocation is reported as failed.
type Inspector struct {
	tool   string
	logger interfaces.Logger

	// run is the subprocess seam, replaced in tests.
	run func(ctx context.Context, args ...string) (stdout, stderr []byte, err error)
}

// NewInspector creates an inspector around a resolved tool path.
func NewInspector(tool string, logger interfaces.Logger) *Inspector {
	i := &Inspector{tool: tool, logger: logger}
	i.run = func(ctx context.Context, args ...string) ([]byte, []byte, error) {
		var stdout, stderr bytes.Buffer
		//nolint:gosec // G204: tool path comes from the deterministic resolver
		cmd := exec.CommandContext(ctx, i.tool, args...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		err := cmd.Run()
		return stdout.Bytes(), stderr.Bytes(), err
	}
	return i
}

// LoadSegmentAlignments invokes the tool's program-header listing and
// extracts the alignment of every LOAD row.
func (i *Inspector) LoadSegmentAlignments(ctx context.Context, path string) ([]uint64, error) {
	out, err := i.invoke(ctx, path, []string{"-W", "-l"}, []string{"-l"})
	if err != nil {
		return nil, err
	}

	aligns, err := parseLoadAlignments(out)
	if err != nil {
		return nil, &entities.ToolInvocationError{Artifact: path, Output: out, Err: err}
	}
	return aligns, nil
}

// SymbolNames invokes the tool's symbol-table listing, which covers both the
// dynamic and the full table when present, and extracts the name column.
func (i *Inspector) SymbolNames(ctx context.Context, path string) (map[string]struct{}, error) {
	out, err := i.invoke(ctx, path, []string{"-W", "-s"}, []string{"-s"})
	if err != nil {
		return nil, err
	}
	return parseSymbolNames(out), nil
}

// invoke runs the tool with the primary flag set, retrying once with the
// fallback flags on failure.
func (i *Inspector) invoke(ctx context.Context, path string, primary, fallback []string) (string, error) {
	stdout, stderr, err := i.run(ctx, append(primary, path)...)
	if err == nil {
		return string(stdout), nil
	}

	i.logger.Debug("wide-mode invocation failed, retrying narrow",
		interfaces.F("tool", i.tool),
		interfaces.F("artifact", path),
		interfaces.F("error", err))

	stdout, stderr2, err2 := i.run(ctx, append(fallback, path)...)
	if err2 == nil {
		return string(stdout), nil
	}

	output := strings.TrimSpace(string(stderr2))
	if output == "" {
		output = strings.TrimSpace(string(stderr))
	}
	return "", &entities.ToolInvocationError{Artifact: path, Output: output, Err: err2}
}
