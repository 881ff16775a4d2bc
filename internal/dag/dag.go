// Package dag provides the directed graph over statement labels used
// for cycle detection and renumbering suggestions. Labels are interned
// to integer indices so traversal order is deterministic and the sort
// is allocation-light.
package dag

import (
	"errors"
	"fmt"
	"strings"
)

// Graph is a directed graph over interned labels. An edge source ->
// target means "source depends on target" (the statement at source
// references target).
type Graph struct {
	ids    map[string]int
	labels []string // index -> label, in insertion order
	deps   [][]int  // source -> targets (dependencies)
	users  [][]int  // target -> sources (dependents)
	edges  int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{ids: make(map[string]int)}
}

// AddNode interns a label and returns its index. Adding an existing
// label is a no-op. Insertion order is the tie-break for topological
// sorting, so callers add nodes in a meaningful order (numbering-table
// order for documents).
func (g *Graph) AddNode(label string) int {
	if id, ok := g.ids[label]; ok {
		return id
	}
	id := len(g.labels)
	g.ids[label] = id
	g.labels = append(g.labels, label)
	g.deps = append(g.deps, nil)
	g.users = append(g.users, nil)
	return id
}

// Contains reports whether the label is a node of the graph.
func (g *Graph) Contains(label string) bool {
	_, ok := g.ids[label]
	return ok
}

// AddEdge records that source depends on target. Both labels must
// already be nodes, and self-loops are rejected. Duplicate edges
// collapse silently.
func (g *Graph) AddEdge(source, target string) error {
	src, ok := g.ids[source]
	if !ok {
		return fmt.Errorf("source node %q does not exist", source)
	}
	dst, ok := g.ids[target]
	if !ok {
		return fmt.Errorf("target node %q does not exist", target)
	}
	if src == dst {
		return fmt.Errorf("self-loop rejected: %s", source)
	}
	for _, d := range g.deps[src] {
		if d == dst {
			return nil
		}
	}
	g.deps[src] = append(g.deps[src], dst)
	g.users[dst] = append(g.users[dst], src)
	g.edges++
	return nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.labels) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Labels returns all node labels in insertion order.
func (g *Graph) Labels() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

// Dependencies returns the labels the given label depends on, in edge
// insertion order.
func (g *Graph) Dependencies(label string) []string {
	id, ok := g.ids[label]
	if !ok {
		return nil
	}
	return g.resolve(g.deps[id])
}

// Dependents returns the labels that depend on the given label.
func (g *Graph) Dependents(label string) []string {
	id, ok := g.ids[label]
	if !ok {
		return nil
	}
	return g.resolve(g.users[id])
}

// Roots returns nodes with no dependencies, in insertion order.
func (g *Graph) Roots() []string {
	var roots []string
	for id, label := range g.labels {
		if len(g.deps[id]) == 0 {
			roots = append(roots, label)
		}
	}
	return roots
}

// Leaves returns nodes nothing depends on, in insertion order.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id, label := range g.labels {
		if len(g.users[id]) == 0 {
			leaves = append(leaves, label)
		}
	}
	return leaves
}

func (g *Graph) resolve(ids []int) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.labels[id]
	}
	return out
}

// CycleError reports that the graph admits no topological ordering.
// Path holds one cycle, with the entry label repeated at the end.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Path, " -> "))
}

// Node states during the sort traversal.
type visitState uint8

const (
	unvisited visitState = iota
	inStack
	done
)

// TopologicalSort returns all labels ordered so every node appears
// after everything it depends on: for each edge source -> target,
// index(target) < index(source). Independent nodes keep their
// insertion order. Returns a *CycleError when the graph is cyclic; no
// partial order is exposed.
func (g *Graph) TopologicalSort() ([]string, error) {
	state := make([]visitState, len(g.labels))
	order := make([]string, 0, len(g.labels))
	var path []int

	var visit func(id int) *CycleError
	visit = func(id int) *CycleError {
		state[id] = inStack
		path = append(path, id)
		for _, dep := range g.deps[id] {
			switch state[dep] {
			case done:
			case inStack:
				// Re-entering a node on the active path: cycle.
				return g.cycleAt(path, dep)
			default:
				if cerr := visit(dep); cerr != nil {
					return cerr
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		order = append(order, g.labels[id])
		return nil
	}

	for id := range g.labels {
		if state[id] != unvisited {
			continue
		}
		if cerr := visit(id); cerr != nil {
			return nil, cerr
		}
	}
	return order, nil
}

// cycleAt extracts the cycle from the active path once a node already
// in the stack is re-entered.
func (g *Graph) cycleAt(path []int, entry int) *CycleError {
	start := 0
	for i, id := range path {
		if id == entry {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(path)-start+1)
	for _, id := range path[start:] {
		cycle = append(cycle, g.labels[id])
	}
	cycle = append(cycle, g.labels[entry])
	return &CycleError{Path: cycle}
}

// HasCycle reports whether the graph contains a cycle, along with one
// cycle path when it does.
func (g *Graph) HasCycle() (bool, []string) {
	_, err := g.TopologicalSort()
	if err == nil {
		return false, nil
	}
	var cerr *CycleError
	if errors.As(err, &cerr) {
		return true, cerr.Path
	}
	return true, nil
}
