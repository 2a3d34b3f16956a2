package yaml

import (
	"context"
	"fmt"
	"os"

	"github.com/soverify/soverify/internal/domain/entities"
)

// CatalogRepository implements repositories.CatalogRepository using a YAML
// manifest, falling back to the built-in catalog when no path is configured.
type CatalogRepository struct {
	manifestPath string
	parser       *CatalogParser
}

// NewCatalogRepository creates a new YAML-based catalog repository.
// An empty manifestPath selects the built-in default catalog.
func NewCatalogRepository(manifestPath string) *CatalogRepository {
	return &CatalogRepository{
		manifestPath: manifestPath,
		parser:       NewCatalogParser(),
	}
}

// LoadCatalog returns the configured symbol catalog
func (r *CatalogRepository) LoadCatalog(_ context.Context) (*entities.Catalog, error) {
	if r.manifestPath == "" {
		return entities.DefaultCatalog(), nil
	}

	if _, err := os.Stat(r.manifestPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("catalog manifest not found: %s", r.manifestPath)
	}

	return r.parser.ParseFile(r.manifestPath)
}
