package entities

import (
	"fmt"
	"strings"
)

// ViolationKind classifies a failed check.
type ViolationKind string

// Violation kinds.
const (
	ViolationAlignment     ViolationKind = "alignment"
	ViolationMissingSymbol ViolationKind = "missing-symbol"
	ViolationInspection    ViolationKind = "inspection-error"
)

// Violation records one failed check against one artifact.
type Violation struct {
	Artifact  string
	Kind      ViolationKind
	Alignment uint64   // observed max LOAD alignment (alignment violations)
	Limit     uint64   // configured ceiling (alignment violations)
	Missing   []string // absent symbols (missing-symbol violations)
	Err       error    // underlying failure (inspection errors)
}

// Message renders a one-line human-readable description of the violation.
func (v *Violation) Message() string {
	switch v.Kind {
	case ViolationAlignment:
		return fmt.Sprintf("max LOAD alignment 0x%x exceeds limit 0x%x", v.Alignment, v.Limit)
	case ViolationMissingSymbol:
		return "missing required symbols: " + strings.Join(v.Missing, ", ")
	case ViolationInspection:
		return fmt.Sprintf("inspection failed: %v", v.Err)
	default:
		return string(v.Kind)
	}
}

// FallbackNote marks an artifact that passed its required-symbol check only
// through a fallback evidence set, so callers can warn without failing.
type FallbackNote struct {
	Artifact string
	Matched  string // the fallback symbol that supplied the evidence
}

// Outcome is the aggregate state of a verification run.
type Outcome string

// Run outcomes. A run moves from not-started to exactly one of these.
const (
	OutcomeNoArtifacts Outcome = "no-artifacts"
	OutcomePass        Outcome = "pass"
	OutcomeFail        Outcome = "fail"
)

// Verdict aggregates one verification run over all discovered artifacts.
// Every artifact is evaluated independently before aggregation; the
// violation list covers all offenders, never just the first.
type Verdict struct {
	Outcome    Outcome
	Artifacts  int
	Violations []Violation
	Fallbacks  []FallbackNote
}

// ExitCode maps the verdict to the CLI convention: 0 all checks satisfied,
// 1 at least one violation, 2 no matching artifacts (inconclusive,
// signaling misconfiguration rather than a real defect).
func (v *Verdict) ExitCode() int {
	switch v.Outcome {
	case OutcomePass:
		return 0
	case OutcomeNoArtifacts:
		return 2
	default:
		return 1
	}
}

// SymbolResult is the outcome of a required-symbol check for one artifact.
type SymbolResult struct {
	Passed      bool
	ViaFallback bool     // passed, but only a fallback evidence set matched
	Matched     []string // symbols that satisfied the rule
	Missing     []string // symbols whose absence caused or risked failure
}
