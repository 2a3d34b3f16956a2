// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"sort"
	"sync"

	"github.com/soverify/soverify/internal/domain/entities"
	"github.com/soverify/soverify/internal/domain/interfaces"
	"github.com/soverify/soverify/internal/domain/interfaces/repositories"
	"github.com/soverify/soverify/internal/domain/interfaces/services"
)

// ArtifactFinder interface for discovering artifacts on disk
type ArtifactFinder interface {
	DiscoverArtifacts(path, pattern string) ([]entities.Artifact, error)
}

// VerifyOrchestrator coordinates the complete verification workflow:
// discovery, per-artifact inspection, and verdict aggregation.
type VerifyOrchestrator struct {
	finder      ArtifactFinder
	verifier    services.VerifyService
	catalogRepo repositories.CatalogRepository
	logger      interfaces.Logger
}

// VerifyOptions holds the knobs for a single run.
type VerifyOptions struct {
	Pattern      string // filename match rule, default ".so"
	MaxAlignment uint64 // inclusive LOAD alignment ceiling
	CheckAlign   bool
	CheckSymbols bool
	Jobs         int // artifacts inspected concurrently, default 1
}

// DefaultMaxAlignment is the 16 KiB page-size ceiling modern Android
// runtimes enforce on loadable segments.
const DefaultMaxAlignment uint64 = 0x4000

// NewVerifyOrchestrator creates a new verify orchestrator
func NewVerifyOrchestrator(
	finder ArtifactFinder,
	verifier services.VerifyService,
	catalogRepo repositories.CatalogRepository,
	logger interfaces.Logger,
) *VerifyOrchestrator {
	return &VerifyOrchestrator{
		finder:      finder,
		verifier:    verifier,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// Run executes the verification workflow for every artifact under path.
//
// Structural errors (path or catalog resolution) abort before any artifact
// is evaluated. Per-artifact failures never abort the run: all artifacts are
// evaluated and all violations reported together. Results are ordered by
// artifact path, so concurrent completion order never affects output.
func (o *VerifyOrchestrator) Run(ctx context.Context, path string, opts VerifyOptions) (*entities.Verdict, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = ".so"
	}

	artifacts, err := o.finder.DiscoverArtifacts(path, pattern)
	if err != nil {
		return nil, err
	}

	if len(artifacts) == 0 {
		o.logger.Warn("no matching artifacts found",
			interfaces.F("path", path),
			interfaces.F("pattern", pattern))
		return &entities.Verdict{Outcome: entities.OutcomeNoArtifacts}, nil
	}

	var catalog *entities.Catalog
	if opts.CheckSymbols {
		catalog, err = o.catalogRepo.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	// Results are indexed by the (already sorted) artifact position, which
	// keeps aggregation deterministic under any completion order.
	results := make([]artifactResult, len(artifacts))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup

	for i, artifact := range artifacts {
		wg.Add(1)
		go func(i int, artifact entities.Artifact) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.checkArtifact(ctx, artifact, catalog, opts)
		}(i, artifact)
	}
	wg.Wait()

	verdict := &entities.Verdict{
		Outcome:   entities.OutcomePass,
		Artifacts: len(artifacts),
	}
	for _, r := range results {
		verdict.Violations = append(verdict.Violations, r.violations...)
		verdict.Fallbacks = append(verdict.Fallbacks, r.fallbacks...)
	}

	sort.SliceStable(verdict.Violations, func(i, j int) bool {
		return verdict.Violations[i].Artifact < verdict.Violations[j].Artifact
	})
	sort.SliceStable(verdict.Fallbacks, func(i, j int) bool {
		return verdict.Fallbacks[i].Artifact < verdict.Fallbacks[j].Artifact
	})

	if len(verdict.Violations) > 0 {
		verdict.Outcome = entities.OutcomeFail
	}

	o.logger.Info("verification finished",
		interfaces.F("artifacts", verdict.Artifacts),
		interfaces.F("violations", len(verdict.Violations)),
		interfaces.F("outcome", verdict.Outcome))
	return verdict, nil
}

type artifactResult struct {
	violations []entities.Violation
	fallbacks  []entities.FallbackNote
}

func (o *VerifyOrchestrator) checkArtifact(ctx context.Context, artifact entities.Artifact, catalog *entities.Catalog, opts VerifyOptions) artifactResult {
	var res artifactResult

	if opts.CheckAlign {
		alignVerdict, err := o.verifier.CheckAlignment(ctx, []entities.Artifact{artifact}, opts.MaxAlignment)
		if err != nil {
			res.violations = append(res.violations, entities.Violation{
				Artifact: artifact.Path,
				Kind:     entities.ViolationInspection,
				Err:      err,
			})
		} else {
			res.violations = append(res.violations, alignVerdict.Violations...)
		}
	}

	if opts.CheckSymbols && catalog != nil {
		rule, ok := catalog.RuleFor(artifact.Name)
		if !ok {
			o.logger.Debug("no symbol rule for artifact",
				interfaces.F("artifact", artifact.Name))
			return res
		}

		symResult, err := o.verifier.CheckRequiredSymbols(ctx, artifact, *rule)
		switch {
		case err != nil:
			res.violations = append(res.violations, entities.Violation{
				Artifact: artifact.Path,
				Kind:     entities.ViolationInspection,
				Err:      err,
			})
		case !symResult.Passed:
			res.violations = append(res.violations, entities.Violation{
				Artifact: artifact.Path,
				Kind:     entities.ViolationMissingSymbol,
				Missing:  symResult.Missing,
			})
		case symResult.ViaFallback:
			matched := ""
			if len(symResult.Matched) > 0 {
				matched = symResult.Matched[len(symResult.Matched)-1]
			}
			res.fallbacks = append(res.fallbacks, entities.FallbackNote{
				Artifact: artifact.Path,
				Matched:  matched,
			})
		}
	}

	return res
}
