// Package services defines domain service contracts.
package services

import (
	"context"

	"github.com/soverify/soverify/internal/domain/entities"
)

// VerifyService checks structural and symbolic properties of shared-library
// artifacts without modifying them.
type VerifyService interface {
	// MaxLoadAlignment returns the maximum alignment among the artifact's
	// LOAD segments, or 0 when it has none.
	MaxLoadAlignment(ctx context.Context, artifact entities.Artifact) (uint64, error)

	// CheckAlignment evaluates every artifact against an inclusive
	// alignment ceiling: equal passes, strictly greater violates. All
	// artifacts are evaluated before aggregating; inspection failures are
	// recorded against the artifact, never silently skipped.
	CheckAlignment(ctx context.Context, artifacts []entities.Artifact, maxAllowed uint64) (*entities.Verdict, error)

	// HasSymbol reports whether the artifact's symbol tables contain an
	// exact match for name. Substring and prefix matches never count.
	HasSymbol(ctx context.Context, artifact entities.Artifact, name string) (bool, error)

	// CheckRequiredSymbols applies the two-tier policy of rule to the
	// artifact: the all-of tier fails outright on any absence, the any-of
	// tier passes on primary or fallback evidence, marking fallback use.
	CheckRequiredSymbols(ctx context.Context, artifact entities.Artifact, rule entities.SymbolRule) (*entities.SymbolResult, error)
}
