// Package yaml provides YAML-based symbol-catalog parsing and repository
// implementations.
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soverify/soverify/internal/domain/entities"
)

// yamlCatalog represents the raw manifest structure
type yamlCatalog struct {
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	Match   string     `yaml:"match"`
	Require []string   `yaml:"require"`
	AnyOf   [][]string `yaml:"any_of"`
}

// CatalogParser parses YAML symbol-catalog manifests
type CatalogParser struct{}

// NewCatalogParser creates a new YAML parser
func NewCatalogParser() *CatalogParser {
	return &CatalogParser{}
}

// ParseFile parses a YAML manifest file into a Catalog entity
func (p *CatalogParser) ParseFile(filePath string) (*entities.Catalog, error) {
	//nolint:gosec // G304: filePath is the user-supplied catalog manifest path
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into a Catalog entity
func (p *CatalogParser) Parse(data []byte) (*entities.Catalog, error) {
	var manifest yamlCatalog
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(manifest.Rules) == 0 {
		return nil, fmt.Errorf("catalog defines no rules")
	}

	catalog := &entities.Catalog{Rules: make([]entities.SymbolRule, 0, len(manifest.Rules))}
	for i, rule := range manifest.Rules {
		if rule.Match == "" {
			return nil, fmt.Errorf("rule %d has no match pattern", i)
		}
		if len(rule.Require) == 0 && len(rule.AnyOf) == 0 {
			return nil, fmt.Errorf("rule %d (%s) requires no symbols", i, rule.Match)
		}
		catalog.Rules = append(catalog.Rules, entities.SymbolRule{
			Match:   rule.Match,
			Require: rule.Require,
			AnyOf:   rule.AnyOf,
		})
	}

	return catalog, nil
}
