// Package repositories defines domain-facing persistence contracts.
package repositories

import (
	"context"

	"github.com/soverify/soverify/internal/domain/entities"
)

// CatalogRepository loads the required-symbol catalog. The catalog is
// configuration, not a fixed constant: implementations may read a manifest
// file or fall back to the built-in rule set.
type CatalogRepository interface {
	LoadCatalog(ctx context.Context) (*entities.Catalog, error)
}
