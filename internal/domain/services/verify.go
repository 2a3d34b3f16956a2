// Package services implements domain business logic and use cases.
package services

import (
	"context"
	"fmt"

	"github.com/soverify/soverify/internal/domain/entities"
	"github.com/soverify/soverify/internal/domain/interfaces/gateways"
	"github.com/soverify/soverify/internal/domain/interfaces/services"
)

// verifyService implements VerifyService with pure business logic, delegating
// all file access to the injected inspector gateway.
type verifyService struct {
	inspector gateways.Inspector
}

// NewVerifyService creates a new verify service with dependency injection
func NewVerifyService(inspector gateways.Inspector) services.VerifyService {
	return &verifyService{inspector: inspector}
}

// MaxLoadAlignment returns the maximum alignment among the artifact's LOAD
// segments. No LOAD entries is degenerate input, reported as 0 rather than
// an error: 0 never exceeds a limit, so malformed-but-readable files are a
// passable state for alignment.
func (s *verifyService) MaxLoadAlignment(ctx context.Context, artifact entities.Artifact) (uint64, error) {
	aligns, err := s.inspector.LoadSegmentAlignments(ctx, artifact.Path)
	if err != nil {
		return 0, err
	}

	var maxAlign uint64
	for _, a := range aligns {
		if a > maxAlign {
			maxAlign = a
		}
	}
	return maxAlign, nil
}

// CheckAlignment evaluates every artifact against maxAllowed (inclusive
// ceiling) and aggregates the result. Inspection failures are recorded as
// violations against the artifact so the run reports the complete picture.
func (s *verifyService) CheckAlignment(ctx context.Context, artifacts []entities.Artifact, maxAllowed uint64) (*entities.Verdict, error) {
	if len(artifacts) == 0 {
		return &entities.Verdict{Outcome: entities.OutcomeNoArtifacts}, nil
	}

	verdict := &entities.Verdict{
		Outcome:   entities.OutcomePass,
		Artifacts: len(artifacts),
	}

	for _, artifact := range artifacts {
		maxAlign, err := s.MaxLoadAlignment(ctx, artifact)
		if err != nil {
			verdict.Violations = append(verdict.Violations, entities.Violation{
				Artifact: artifact.Path,
				Kind:     entities.ViolationInspection,
				Err:      err,
			})
			continue
		}

		if maxAlign > maxAllowed {
			verdict.Violations = append(verdict.Violations, entities.Violation{
				Artifact:  artifact.Path,
				Kind:      entities.ViolationAlignment,
				Alignment: maxAlign,
				Limit:     maxAllowed,
			})
		}
	}

	if len(verdict.Violations) > 0 {
		verdict.Outcome = entities.OutcomeFail
	}
	return verdict, nil
}

// HasSymbol reports whether the artifact exports or defines name exactly.
func (s *verifyService) HasSymbol(ctx context.Context, artifact entities.Artifact, name string) (bool, error) {
	names, err := s.inspector.SymbolNames(ctx, artifact.Path)
	if err != nil {
		return false, err
	}
	_, ok := names[name]
	return ok, nil
}

// CheckRequiredSymbols applies the rule's two-tier policy to the artifact.
//
// Tier one (Require) is strict: every member must be present. Tier two
// (AnyOf) is evidence-based: at least one symbol from any set must be
// present, and a match outside the first (primary) set is a fallback pass.
// The fallback tier stays deliberately loose; see DefaultCatalog for why.
func (s *verifyService) CheckRequiredSymbols(ctx context.Context, artifact entities.Artifact, rule entities.SymbolRule) (*entities.SymbolResult, error) {
	names, err := s.inspector.SymbolNames(ctx, artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("symbol check failed: %w", err)
	}

	result := &entities.SymbolResult{Passed: true}

	for _, required := range rule.Require {
		if _, ok := names[required]; ok {
			result.Matched = append(result.Matched, required)
		} else {
			result.Missing = append(result.Missing, required)
			result.Passed = false
		}
	}

	if len(rule.AnyOf) > 0 {
		satisfied := false
		for setIdx, set := range rule.AnyOf {
			for _, candidate := range set {
				if _, ok := names[candidate]; ok {
					result.Matched = append(result.Matched, candidate)
					result.ViaFallback = setIdx > 0
					satisfied = true
					break
				}
			}
			if satisfied {
				break
			}
		}

		if !satisfied {
			// Report the primary evidence set as the missing symbols;
			// listing every fallback alternative would bury the signal.
			result.Missing = append(result.Missing, rule.AnyOf[0]...)
			result.Passed = false
		}
	}

	if !result.Passed {
		result.ViaFallback = false
	}
	return result, nil
}
