package readelf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/soverify/soverify/internal/domain/entities"
	"github.com/soverify/soverify/internal/domain/interfaces"
)

// scriptedRunner fakes the subprocess seam: each call pops the next
// response, recording the arguments it was invoked with.
type scriptedRunner struct {
	calls     [][]string
	responses []scriptedResponse
}

type scriptedResponse struct {
	stdout string
	stderr string
	err    error
}

func (r *scriptedRunner) run(_ context.Context, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, args)
	if len(r.responses) == 0 {
		return nil, nil, errors.New("scriptedRunner: no responses left")
	}
	resp := r.responses[0]
	r.responses = r.responses[1:]
	return []byte(resp.stdout), []byte(resp.stderr), resp.err
}

func scriptedInspector(responses ...scriptedResponse) (*Inspector, *scriptedRunner) {
	runner := &scriptedRunner{responses: responses}
	i := NewInspector("readelf", &interfaces.NoOpLogger{})
	i.run = runner.run
	return i, runner
}

func TestInspector_WideModeSucceeds(t *testing.T) {
	i, runner := scriptedInspector(scriptedResponse{stdout: wideProgramHeaders})

	aligns, err := i.LoadSegmentAlignments(context.Background(), "lib.so")
	if err != nil {
		t.Fatalf("LoadSegmentAlignments() error = %v", err)
	}

	if len(aligns) != 2 || aligns[1] != 0x200000 {
		t.Errorf("aligns = %v, want [0x4000 0x200000]", aligns)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("Tool invoked %d times, want 1", len(runner.calls))
	}
	if got := strings.Join(runner.calls[0], " "); got != "-W -l lib.so" {
		t.Errorf("invocation = %q, want %q", got, "-W -l lib.so")
	}
}

// Tools that reject -W must be retried in narrow mode before failing.
func TestInspector_NarrowModeFallback(t *testing.T) {
	i, runner := scriptedInspector(
		scriptedResponse{stderr: "readelf: invalid option -- 'W'", err: errors.New("exit status 1")},
		scriptedResponse{stdout: narrowProgramHeaders},
	)

	aligns, err := i.LoadSegmentAlignments(context.Background(), "lib.so")
	if err != nil {
		t.Fatalf("LoadSegmentAlignments() error = %v", err)
	}

	if len(aligns) != 2 || aligns[0] != 0x200000 {
		t.Errorf("aligns = %v, want [0x200000 0x1000]", aligns)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("Tool invoked %d times, want 2 (wide then narrow)", len(runner.calls))
	}
	if got := strings.Join(runner.calls[1], " "); got != "-l lib.so" {
		t.Errorf("fallback invocation = %q, want %q", got, "-l lib.so")
	}
}

func TestInspector_BothModesFail(t *testing.T) {
	i, _ := scriptedInspector(
		scriptedResponse{stderr: "boom", err: errors.New("exit status 1")},
		scriptedResponse{stderr: "lib.so: not an ELF file", err: errors.New("exit status 1")},
	)

	_, err := i.LoadSegmentAlignments(context.Background(), "lib.so")
	if err == nil {
		t.Fatal("Expected error after exhausting fallbacks, got nil")
	}

	var toolErr *entities.ToolInvocationError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Expected ToolInvocationError, got: %T %v", err, err)
	}
	if toolErr.Artifact != "lib.so" {
		t.Errorf("Artifact = %s, want lib.so", toolErr.Artifact)
	}
	if !strings.Contains(toolErr.Output, "not an ELF file") {
		t.Errorf("Output = %q, want the tool's diagnostics preserved", toolErr.Output)
	}
}

func TestInspector_UnparseableOutputIsInvocationError(t *testing.T) {
	i, _ := scriptedInspector(scriptedResponse{stdout: "  LOAD garbage\n  junk\n"})

	_, err := i.LoadSegmentAlignments(context.Background(), "lib.so")
	if err == nil {
		t.Fatal("Expected error for unparseable output, got nil")
	}

	var toolErr *entities.ToolInvocationError
	if !errors.As(err, &toolErr) {
		t.Errorf("Expected ToolInvocationError, got: %T %v", err, err)
	}
}

func TestInspector_SymbolNames(t *testing.T) {
	i, runner := scriptedInspector(scriptedResponse{stdout: symbolListing})

	names, err := i.SymbolNames(context.Background(), "lib.so")
	if err != nil {
		t.Fatalf("SymbolNames() error = %v", err)
	}

	if _, ok := names["ff_https_protocol"]; !ok {
		t.Error("SymbolNames() missing ff_https_protocol")
	}
	if got := strings.Join(runner.calls[0], " "); got != "-W -s lib.so" {
		t.Errorf("invocation = %q, want %q", got, "-W -s lib.so")
	}
}
