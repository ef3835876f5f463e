package graph

import (
	"fmt"

	"github.com/dbsmedya/axmeta/internal/types"
)

// Builder constructs a relation graph from a list of edges.
type Builder struct {
	edges []types.RelationEdge
}

// NewBuilder creates a new graph builder for the given edges.
func NewBuilder(edges []types.RelationEdge) *Builder {
	return &Builder{edges: edges}
}

// Build constructs the graph. Every edge must name both tables.
func (b *Builder) Build() (*Graph, error) {
	g := NewGraph()
	for i, e := range b.edges {
		if e.FromTable == "" {
			return nil, fmt.Errorf("edge %d has no source table", i)
		}
		if e.ToTable == "" {
			return nil, fmt.Errorf("edge %d from %q has no target table", i, e.FromTable)
		}
		g.AddEdge(e)
	}
	return g, nil
}

// BuildFromEdges is a convenience function that builds a graph directly from edges.
func BuildFromEdges(edges []types.RelationEdge) (*Graph, error) {
	return NewBuilder(edges).Build()
}
