// Package extract finds reference edges between labeled statements in
// LaTeX source. For every \label it resolves the enclosing statement
// scope and collects the reference macros used inside that scope,
// separating ordinary references from explicitly forward ones.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/texdag/texdag/internal/scope"
)

// Edge records that the statement at Source references Target. The
// pair is unique per source scope; Positions keeps every occurrence
// offset for diagnostics.
type Edge struct {
	Source    string
	Target    string
	File      string
	Positions []int
}

// Unresolved records a label whose scope could not be determined; its
// references contribute no edges.
type Unresolved struct {
	Label  string
	File   string
	Offset int
}

// Result holds everything extracted from one source buffer.
type Result struct {
	// Edges are ordinary references, in discovery order.
	Edges []Edge
	// Forward are explicitly forward-marked references, exempt from
	// ordering checks.
	Forward []Edge
	// Unresolved lists labels with no enclosing owner environment.
	Unresolved []Unresolved
}

// Config selects which macros and environments the extractor honors.
type Config struct {
	// RefMacros are ordinary reference command names, with or without
	// the leading backslash (e.g. "\reflem" or "reflem").
	RefMacros []string
	// ForwardMacros are forward-reference command names.
	ForwardMacros []string
	// ExcludedPrefixes lists label prefixes to ignore entirely, as
	// source labels and as targets (e.g. "eq", "fig").
	ExcludedPrefixes []string
	// Environments maps a label prefix to the environment names that
	// can own labels of that kind (e.g. "def" -> ["defn"]).
	Environments map[string][]string
	// TrailingMarkers are environments a statement's scope extends
	// through when they immediately follow it, typically ["proof"].
	TrailingMarkers []string
}

var labelToken = regexp.MustCompile(`\\label\{([^}]+)\}`)

// Extractor scans source buffers for reference edges. It is immutable
// after construction and safe for concurrent use across files.
type Extractor struct {
	cfg      Config
	refs     []*regexp.Regexp
	forward  []*regexp.Regexp
	excluded map[string]bool
}

// New compiles the macro patterns for the given configuration. Empty
// macro lists are not an error; they simply produce zero edges of that
// kind.
func New(cfg Config) *Extractor {
	ex := &Extractor{
		cfg:      cfg,
		refs:     compileMacros(cfg.RefMacros),
		forward:  compileMacros(cfg.ForwardMacros),
		excluded: make(map[string]bool, len(cfg.ExcludedPrefixes)),
	}
	for _, p := range cfg.ExcludedPrefixes {
		ex.excluded[p] = true
	}
	return ex
}

// compileMacros builds one pattern per macro name, anchored on the
// brace-delimited argument so \ref does not match \reflem.
func compileMacros(names []string) []*regexp.Regexp {
	pats := make([]*regexp.Regexp, 0, len(names))
	for _, name := range names {
		name = strings.TrimLeft(name, `\`)
		if name == "" {
			continue
		}
		pats = append(pats, regexp.MustCompile(`\\`+regexp.QuoteMeta(name)+`\{([^}]+)\}`))
	}
	return pats
}

// File extracts all reference edges from one source buffer. Labels are
// processed in document order; occurrences within a scope in position
// order; duplicate (source, target) pairs from the same scope collapse
// to a single edge.
func (ex *Extractor) File(name, content string) *Result {
	res := &Result{}

	sanitized := scope.Sanitize(content)
	resolver := scope.NewResolver(sanitized)

	for _, m := range labelToken.FindAllStringSubmatchIndex(sanitized, -1) {
		label := sanitized[m[2]:m[3]]
		offset := m[0]
		if ex.excluded[labelPrefix(label)] {
			continue
		}

		owners := ex.cfg.Environments[labelPrefix(label)]
		if len(owners) == 0 {
			res.Unresolved = append(res.Unresolved, Unresolved{Label: label, File: name, Offset: offset})
			continue
		}
		span, ok := resolver.Resolve(offset, owners)
		if !ok {
			res.Unresolved = append(res.Unresolved, Unresolved{Label: label, File: name, Offset: offset})
			continue
		}
		span = resolver.ExtendThrough(span, ex.cfg.TrailingMarkers)

		res.Edges = append(res.Edges, ex.scanSpan(name, label, sanitized, span, ex.refs)...)
		res.Forward = append(res.Forward, ex.scanSpan(name, label, sanitized, span, ex.forward)...)
	}

	return res
}

// occurrence is one macro hit inside a scope.
type occurrence struct {
	pos    int
	target string
}

// scanSpan collects the edges one label's scope contributes for one
// macro kind.
func (ex *Extractor) scanSpan(file, label, sanitized string, span scope.Span, macros []*regexp.Regexp) []Edge {
	var occs []occurrence
	body := sanitized[span.Start:span.End]
	for _, pat := range macros {
		for _, m := range pat.FindAllStringSubmatchIndex(body, -1) {
			occs = append(occs, occurrence{
				pos:    span.Start + m[0],
				target: body[m[2]:m[3]],
			})
		}
	}
	sort.Slice(occs, func(i, j int) bool { return occs[i].pos < occs[j].pos })

	var edges []Edge
	index := make(map[string]int)
	for _, occ := range occs {
		if occ.target == label || ex.excluded[labelPrefix(occ.target)] {
			continue
		}
		if i, seen := index[occ.target]; seen {
			edges[i].Positions = append(edges[i].Positions, occ.pos)
			continue
		}
		index[occ.target] = len(edges)
		edges = append(edges, Edge{
			Source:    label,
			Target:    occ.target,
			File:      file,
			Positions: []int{occ.pos},
		})
	}
	return edges
}

// labelPrefix returns the statement kind of a label: the text before
// the first colon, or the whole label when there is none.
func labelPrefix(label string) string {
	if i := strings.IndexByte(label, ':'); i >= 0 {
		return label[:i]
	}
	return label
}
