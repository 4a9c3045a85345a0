package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// IncludeGraph records which manifests include which.
type IncludeGraph struct {
	edges map[InternedString][]InternedString
	order []InternedString
}

// NewIncludeGraph creates a new empty IncludeGraph.
func NewIncludeGraph() *IncludeGraph {
	return &IncludeGraph{
		edges: make(map[InternedString][]InternedString),
	}
}

// AddNode adds a manifest without includes. Adding an existing node is a no-op.
func (g *IncludeGraph) AddNode(path string) {
	key := NewInternedString(path)
	if _, exists := g.edges[key]; !exists {
		g.edges[key] = nil
	}
}

// AddEdge records that from includes to. Both nodes are added if missing.
func (g *IncludeGraph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	f, t := NewInternedString(from), NewInternedString(to)
	if slices.Contains(g.edges[f], t) {
		return
	}
	g.edges[f] = append(g.edges[f], t)
}

// Len returns the number of manifests in the graph.
func (g *IncludeGraph) Len() int {
	return len(g.edges)
}

// Validate checks for include cycles using a depth-first topological sort.
// It populates the walk order if successful.
func (g *IncludeGraph) Validate() error {
	g.order = make([]InternedString, 0, len(g.edges))
	state := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		state[u] = 1
		path = append(path, u)

		for _, v := range g.edges[u] {
			switch state[v] {
			case 1:
				return g.buildCycleError(path, v)
			case 0:
				if err := visit(v); err != nil {
					return err
				}
			}
		}

		state[u] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, u)
		return nil
	}

	// Sorted roots keep the walk order stable between runs.
	keys := make([]InternedString, 0, len(g.edges))
	for k := range g.edges {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})

	for _, k := range keys {
		if state[k] == 0 {
			if err := visit(k); err != nil {
				g.order = nil
				return err
			}
		}
	}

	return nil
}

func (g *IncludeGraph) buildCycleError(path []InternedString, target InternedString) error {
	start := slices.Index(path, target)
	parts := make([]string, 0, len(path)-start+1)
	for _, p := range path[start:] {
		parts = append(parts, p.String())
	}
	parts = append(parts, target.String())
	return zerr.With(zerr.Wrap(ErrIncludeCycle, "manifests include each other"), "cycle", strings.Join(parts, " -> "))
}

// Walk yields manifest paths with included manifests before their includers.
// It assumes Validate() has been called and returned nil.
func (g *IncludeGraph) Walk() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, p := range g.order {
			if !yield(p.String()) {
				return
			}
		}
	}
}
