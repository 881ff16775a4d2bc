// Package engine runs the full reference-checking pipeline: load the
// numbering table, scan the source files for reference edges, flag
// order violations, and suggest a consistent renumbering.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/texdag/texdag/internal/auxtable"
	"github.com/texdag/texdag/internal/check"
	"github.com/texdag/texdag/internal/dag"
	"github.com/texdag/texdag/internal/extract"
)

// Config holds engine configuration.
type Config struct {
	// AuxPath is the path to the compiled numbering table (.aux file).
	AuxPath string
	// Sources are the LaTeX source files to scan, in order. File order
	// fixes the order of the resulting edge lists.
	Sources []string
	// RefMacros are ordinary reference command names.
	RefMacros []string
	// ForwardMacros are forward-reference command names.
	ForwardMacros []string
	// ExcludedPrefixes lists label prefixes to ignore entirely.
	ExcludedPrefixes []string
	// Environments maps label prefixes to their owning environments.
	Environments map[string][]string
	// TrailingMarkers are environments a scope extends through,
	// typically ["proof"].
	TrailingMarkers []string
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a recoverable condition reported alongside the primary
// results, so callers need not parse logs.
type Diagnostic struct {
	Severity Severity
	Path     string
	Message  string
}

// Result is the outcome of one pipeline run. Order and Cycle are
// mutually exclusive: a nil Order with a non-nil Cycle means the
// ordinary-edge graph is cyclic and no renumbering exists, which is
// distinct from an empty ordering.
type Result struct {
	Table       *auxtable.Table
	Edges       []extract.Edge
	Forward     []extract.Edge
	Violations  []check.Violation
	Order       []string
	Cycle       []string
	Diagnostics []Diagnostic
}

// Engine orchestrates a single run. All state is recomputed from the
// inputs on every Run; nothing persists between runs.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an engine for the given configuration.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Run executes the full pipeline. Unreadable inputs, malformed table
// entries, and unresolvable scopes become diagnostics, never errors;
// the only error returned is context cancellation.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	res.Table = e.loadTable(res)

	if err := e.scan(ctx, res); err != nil {
		return nil, err
	}

	res.Violations = check.Check(res.Edges, res.Table)
	e.logger.Debug("checked violations", "edges", len(res.Edges), "violations", len(res.Violations))

	graph := e.BuildGraph(res.Table, res.Edges)
	order, err := graph.TopologicalSort()
	var cerr *dag.CycleError
	switch {
	case err == nil:
		res.Order = order
	case errors.As(err, &cerr):
		res.Cycle = cerr.Path
		e.logger.Warn("dependency graph is cyclic", "cycle", cerr.Path)
	default:
		return nil, err
	}

	return res, nil
}

// loadTable loads the numbering table, turning failures into a
// diagnostic and an empty table so the scan still runs.
func (e *Engine) loadTable(res *Result) *auxtable.Table {
	table, err := auxtable.Load(e.cfg.AuxPath)
	if err != nil {
		e.logger.Warn("numbering table unavailable", "path", e.cfg.AuxPath, "error", err)
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Path:     e.cfg.AuxPath,
			Message:  err.Error(),
		})
		return table
	}
	e.logger.Debug("loaded numbering table", "path", e.cfg.AuxPath, "labels", table.Len())
	return table
}

// fileResult keeps one file's extraction output in its input slot so
// the merged lists are ordered by input file, then occurrence position,
// regardless of scan scheduling.
type fileResult struct {
	res  *extract.Result
	diag *Diagnostic
}

// scan extracts edges from every source file, in parallel across files.
func (e *Engine) scan(ctx context.Context, res *Result) error {
	ex := extract.New(extract.Config{
		RefMacros:        e.cfg.RefMacros,
		ForwardMacros:    e.cfg.ForwardMacros,
		ExcludedPrefixes: e.cfg.ExcludedPrefixes,
		Environments:     e.cfg.Environments,
		TrailingMarkers:  e.cfg.TrailingMarkers,
	})

	results := make([]fileResult, len(e.cfg.Sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range e.cfg.Sources {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				results[i].diag = &Diagnostic{
					Severity: SeverityWarning,
					Path:     path,
					Message:  fmt.Sprintf("skipping unreadable source: %v", err),
				}
				return nil
			}
			results[i].res = ex.File(path, string(content))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, fr := range results {
		if fr.diag != nil {
			e.logger.Warn(fr.diag.Message, "path", fr.diag.Path)
			res.Diagnostics = append(res.Diagnostics, *fr.diag)
			continue
		}
		e.logger.Debug("scanned source",
			"path", e.cfg.Sources[i],
			"edges", len(fr.res.Edges),
			"forward", len(fr.res.Forward))
		res.Edges = append(res.Edges, fr.res.Edges...)
		res.Forward = append(res.Forward, fr.res.Forward...)
		for _, u := range fr.res.Unresolved {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityInfo,
				Path:     u.File,
				Message:  fmt.Sprintf("label %s at offset %d has no enclosing scope", u.Label, u.Offset),
			})
		}
	}
	return nil
}

// BuildGraph builds the ordinary-edge dependency graph: nodes are the
// numbering table's labels in table order, edges the ordinary edges
// whose endpoints are both known. Edges touching unknown labels are
// dropped before construction.
func (e *Engine) BuildGraph(table *auxtable.Table, edges []extract.Edge) *dag.Graph {
	g := dag.NewGraph()
	for _, label := range table.Labels() {
		g.AddNode(label)
	}
	for _, edge := range edges {
		if !g.Contains(edge.Source) || !g.Contains(edge.Target) {
			continue
		}
		if err := g.AddEdge(edge.Source, edge.Target); err != nil {
			e.logger.Debug("dropping edge", "source", edge.Source, "target", edge.Target, "error", err)
		}
	}
	return g
}
