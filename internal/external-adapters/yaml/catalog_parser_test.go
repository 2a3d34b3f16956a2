package yaml

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleManifest = `rules:
  - match: libijkffmpeg.so
    require:
      - ff_https_protocol
    any_of:
      - [ff_tls_protocol]
      - [SSL_CTX_new, SSL_CTX_new_ex, OPENSSL_init_ssl]
  - match: ".so"
    require:
      - JNI_OnLoad
`

func TestCatalogParser_Parse(t *testing.T) {
	parser := NewCatalogParser()

	catalog, err := parser.Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(catalog.Rules) != 2 {
		t.Fatalf("Parsed %d rules, want 2", len(catalog.Rules))
	}

	rule, ok := catalog.RuleFor("libijkffmpeg.so")
	if !ok {
		t.Fatal("RuleFor(libijkffmpeg.so) found no rule")
	}
	if len(rule.Require) != 1 || rule.Require[0] != "ff_https_protocol" {
		t.Errorf("Require = %v, want [ff_https_protocol]", rule.Require)
	}
	if len(rule.AnyOf) != 2 || len(rule.AnyOf[1]) != 3 {
		t.Errorf("AnyOf = %v, want two tiers with an OpenSSL fallback set", rule.AnyOf)
	}

	// The suffix rule catches everything else.
	if _, ok := catalog.RuleFor("libijksdl.so"); !ok {
		t.Error("RuleFor(libijksdl.so) found no rule, want the suffix rule")
	}
}

func TestCatalogParser_InvalidYAML(t *testing.T) {
	parser := NewCatalogParser()

	_, err := parser.Parse([]byte("rules: [unclosed"))
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestCatalogParser_EmptyRules(t *testing.T) {
	parser := NewCatalogParser()

	_, err := parser.Parse([]byte("rules: []"))
	if err == nil {
		t.Fatal("Expected error for empty catalog, got nil")
	}
	if !strings.Contains(err.Error(), "no rules") {
		t.Errorf("Expected 'no rules' error, got: %v", err)
	}
}

func TestCatalogParser_RuleWithoutSymbols(t *testing.T) {
	parser := NewCatalogParser()

	_, err := parser.Parse([]byte("rules:\n  - match: lib.so\n"))
	if err == nil {
		t.Fatal("Expected error for rule without symbols, got nil")
	}
}

func TestCatalogRepository_DefaultWhenUnconfigured(t *testing.T) {
	repo := NewCatalogRepository("")

	catalog, err := repo.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	rule, ok := catalog.RuleFor("libijkffmpeg.so")
	if !ok {
		t.Fatal("Default catalog has no rule for libijkffmpeg.so")
	}
	if rule.Require[0] != "ff_https_protocol" {
		t.Errorf("Default rule requires %v, want ff_https_protocol", rule.Require)
	}
}

func TestCatalogRepository_ManifestFile(t *testing.T) {
	tmpDir := t.TempDir()
	manifestPath := filepath.Join(tmpDir, "catalog.yml")
	if err := os.WriteFile(manifestPath, []byte(sampleManifest), 0o600); err != nil {
		t.Fatal(err)
	}

	repo := NewCatalogRepository(manifestPath)

	catalog, err := repo.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(catalog.Rules) != 2 {
		t.Errorf("Loaded %d rules, want 2", len(catalog.Rules))
	}
}

func TestCatalogRepository_MissingManifest(t *testing.T) {
	repo := NewCatalogRepository("/nonexistent/catalog.yml")

	_, err := repo.LoadCatalog(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing manifest, got nil")
	}
}
