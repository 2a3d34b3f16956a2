package entities

import (
	"path/filepath"
	"strings"
)

// SymbolRule describes the required-symbol policy for a class of artifacts.
//
// Require lists symbols that must all be present; any missing member fails
// the artifact outright. AnyOf lists tiered evidence sets: the first set is
// the primary evidence, later sets are fallbacks. The tier is satisfied when
// at least one symbol from any set is present; satisfying it through a
// non-primary set is reported as a fallback pass so callers can warn.
type SymbolRule struct {
	Match   string     // exact filename, ".suffix", or glob pattern
	Require []string   // all-of tier
	AnyOf   [][]string // any-of tier, first set primary
}

// Applies reports whether the rule matches the given artifact filename.
// Match semantics: a leading "." makes it a suffix match, glob metacharacters
// make it a filepath.Match pattern, anything else is exact equality.
func (r *SymbolRule) Applies(name string) bool {
	switch {
	case r.Match == "":
		return false
	case strings.HasPrefix(r.Match, "."):
		return strings.HasSuffix(name, r.Match)
	case strings.ContainsAny(r.Match, "*?["):
		ok, err := filepath.Match(r.Match, name)
		return err == nil && ok
	default:
		return name == r.Match
	}
}

// Catalog maps artifact classes to their required-symbol rules.
type Catalog struct {
	Rules []SymbolRule
}

// RuleFor returns the first rule applying to the given artifact filename.
func (c *Catalog) RuleFor(name string) (*SymbolRule, bool) {
	for i := range c.Rules {
		if c.Rules[i].Applies(name) {
			return &c.Rules[i], true
		}
	}
	return nil, false
}

// DefaultCatalog returns the built-in rule set for player FFmpeg libraries.
//
// HTTPS support must be compiled in. TLS support is evidenced either by the
// FFmpeg TLS protocol symbol or, when OpenSSL was statically linked, by
// OpenSSL's own entry points. The OpenSSL fallback is a heuristic: SSL_CTX
// symbols do not strictly prove the TLS protocol was enabled, but upstream
// builds that static-link OpenSSL stop exporting ff_tls_protocol while
// remaining TLS-capable, and tightening the rule would fail those builds.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Rules: []SymbolRule{
			{
				Match:   "libijkffmpeg.so",
				Require: []string{"ff_https_protocol"},
				AnyOf: [][]string{
					{"ff_tls_protocol"},
					{"SSL_CTX_new", "SSL_CTX_new_ex", "OPENSSL_init_ssl"},
				},
			},
		},
	}
}
