// Package config loads texdag configuration from file, environment
// variables, and CLI flags. It is decoupled from command wiring so
// other tools can reuse it.
package config

import (
	"log/slog"

	"github.com/texdag/texdag/internal/engine"
)

// Config holds all CLI configuration options.
type Config struct {
	// Aux is the path to the compiled numbering table (.aux file).
	Aux string `koanf:"aux"`
	// Sources are the LaTeX files to scan, in order.
	Sources []string `koanf:"sources"`
	// Refs are ordinary reference macros.
	Refs []string `koanf:"refs"`
	// FutureRefs are forward-reference macros, exempt from ordering.
	FutureRefs []string `koanf:"future_refs"`
	// ExcludedPrefixes are label prefixes to ignore (e.g. eq, fig).
	ExcludedPrefixes []string `koanf:"excluded_prefixes"`
	// Environments maps label prefixes to their owning environments.
	Environments map[string][]string `koanf:"environments"`
	// ProofMarkers are environments a statement's scope extends
	// through when they directly follow it.
	ProofMarkers []string `koanf:"proof_markers"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
}

// Default configuration values. The macro and environment defaults
// match the usual amsthm setups.
const (
	DefaultOutput = "auto" // auto-detect: TTY=text, non-TTY=markdown
)

// DefaultRefs are the ordinary reference macros scanned when the
// config does not name any.
func DefaultRefs() []string {
	return []string{`\ref`, `\reflem`, `\refdef`, `\refthm`, `\refcor`}
}

// DefaultFutureRefs are the forward-reference macros scanned by default.
func DefaultFutureRefs() []string {
	return []string{`\fref`}
}

// DefaultExcludedPrefixes are label prefixes ignored by default:
// equations, figures, and sections carry no dependency semantics.
func DefaultExcludedPrefixes() []string {
	return []string{"eq", "fig", "sec"}
}

// DefaultEnvironments maps the conventional label prefixes to the
// environment names that own them.
func DefaultEnvironments() map[string][]string {
	return map[string][]string{
		"thm":  {"thm", "theorem"},
		"lem":  {"lem", "lemma"},
		"def":  {"defn", "definition"},
		"cor":  {"cor", "corollary"},
		"prop": {"prop", "proposition"},
	}
}

// DefaultProofMarkers returns the trailing environments that extend a
// statement's scope.
func DefaultProofMarkers() []string {
	return []string{"proof"}
}

// EngineConfig converts the CLI configuration into an engine
// configuration. Positional source arguments, when given, replace the
// configured source list.
func (c *Config) EngineConfig(sources []string, logger *slog.Logger) engine.Config {
	if len(sources) == 0 {
		sources = c.Sources
	}
	return engine.Config{
		AuxPath:          c.Aux,
		Sources:          sources,
		RefMacros:        c.Refs,
		ForwardMacros:    c.FutureRefs,
		ExcludedPrefixes: c.ExcludedPrefixes,
		Environments:     c.Environments,
		TrailingMarkers:  c.ProofMarkers,
		Logger:           logger,
	}
}
