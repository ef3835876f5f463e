// Package graph provides the table relation graph built from relation edges.
package graph

import (
	"sort"
	"strings"

	"github.com/dbsmedya/axmeta/internal/types"
)

// Graph is a directed multigraph of tables. Table names are matched
// case-insensitively; the first spelling seen is kept for display.
type Graph struct {
	names    map[string]string               // lower-cased name -> display name
	outgoing map[string][]types.RelationEdge // edges leaving a table
	incoming map[string][]types.RelationEdge // edges pointing at a table
	edges    int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		names:    make(map[string]string),
		outgoing: make(map[string][]types.RelationEdge),
		incoming: make(map[string][]types.RelationEdge),
	}
}

func key(name string) string {
	return strings.ToLower(name)
}

// AddNode registers a table without edges.
func (g *Graph) AddNode(name string) {
	k := key(name)
	if _, exists := g.names[k]; !exists {
		g.names[k] = name
	}
}

// AddEdge adds a relation edge, registering both tables.
// Parallel edges are kept.
func (g *Graph) AddEdge(e types.RelationEdge) {
	g.AddNode(e.FromTable)
	g.AddNode(e.ToTable)

	from, to := key(e.FromTable), key(e.ToTable)
	g.outgoing[from] = append(g.outgoing[from], e)
	g.incoming[to] = append(g.incoming[to], e)
	g.edges++
}

// Has reports whether the table appears in any edge, as source or target.
func (g *Graph) Has(name string) bool {
	_, exists := g.names[key(name)]
	return exists
}

// Name returns the display spelling of a table, or name when unknown.
func (g *Graph) Name(name string) string {
	if display, ok := g.names[key(name)]; ok {
		return display
	}
	return name
}

// Outgoing returns the edges whose source is the table.
func (g *Graph) Outgoing(name string) []types.RelationEdge {
	return g.outgoing[key(name)]
}

// Incoming returns the edges whose target is the table.
func (g *Graph) Incoming(name string) []types.RelationEdge {
	return g.incoming[key(name)]
}

// Children returns the distinct tables the table points at, in edge order.
func (g *Graph) Children(name string) []string {
	return distinct(g.Outgoing(name), func(e types.RelationEdge) string { return e.ToTable })
}

// Parents returns the distinct tables pointing at the table, in edge order.
func (g *Graph) Parents(name string) []string {
	return distinct(g.Incoming(name), func(e types.RelationEdge) string { return e.FromTable })
}

// OutDegree returns the number of outgoing edges.
func (g *Graph) OutDegree(name string) int {
	return len(g.outgoing[key(name)])
}

// InDegree returns the number of incoming edges.
func (g *Graph) InDegree(name string) int {
	return len(g.incoming[key(name)])
}

// NodeCount returns the number of tables.
func (g *Graph) NodeCount() int {
	return len(g.names)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// AllNodes returns every table's display name, sorted case-insensitively.
func (g *Graph) AllNodes() []string {
	nodes := make([]string, 0, len(g.names))
	for _, name := range g.names {
		nodes = append(nodes, name)
	}
	sort.Slice(nodes, func(i, j int) bool { return key(nodes[i]) < key(nodes[j]) })
	return nodes
}

func distinct(edges []types.RelationEdge, pick func(types.RelationEdge) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range edges {
		name := pick(e)
		if seen[key(name)] {
			continue
		}
		seen[key(name)] = true
		out = append(out, name)
	}
	return out
}
