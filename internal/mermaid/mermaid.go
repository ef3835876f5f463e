// Package mermaid renders the neighbourhood of a table as a Mermaid
// flowchart.
package mermaid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dbsmedya/axmeta/internal/graph"
)

// Config controls the rendered diagram.
type Config struct {
	Direction string // LR, RL, TD or BT
	Depth     int    // hops around the centre table
}

// DefaultConfig returns a left-to-right diagram of direct neighbours.
func DefaultConfig() *Config {
	return &Config{Direction: "LR", Depth: 1}
}

var directions = map[string]bool{"LR": true, "RL": true, "TD": true, "TB": true, "BT": true}

// Render returns the Mermaid source for the tables within cfg.Depth hops of
// center. Field constraints become solid labelled arrows; fixed-value
// constraints become dotted arrows labelled with the related field.
// If cfg is nil, DefaultConfig is used.
func Render(g *graph.Graph, center string, cfg *Config) (string, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	dir := strings.ToUpper(cfg.Direction)
	if !directions[dir] {
		return "", fmt.Errorf("unsupported direction %q (must be LR, RL, TD, TB or BT)", cfg.Direction)
	}

	hood := g.Neighborhood(center, cfg.Depth)
	if hood == nil {
		return "", fmt.Errorf("table %q does not appear in any relation", center)
	}

	nodes := make([]string, 0, len(hood))
	for name := range hood {
		nodes = append(nodes, name)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if hood[nodes[i]] != hood[nodes[j]] {
			return hood[nodes[i]] < hood[nodes[j]]
		}
		return strings.ToLower(nodes[i]) < strings.ToLower(nodes[j])
	})

	inHood := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		inHood[strings.ToLower(n)] = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", dir)
	for _, n := range nodes {
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", nodeID(n), n)
	}

	seen := make(map[string]bool)
	for _, n := range nodes {
		for _, e := range g.Outgoing(n) {
			if !inHood[strings.ToLower(e.ToTable)] {
				continue
			}
			var line string
			if e.FromField == "" {
				line = fmt.Sprintf("    %s -.->|%s| %s", nodeID(n), e.ToField, nodeID(g.Name(e.ToTable)))
			} else {
				line = fmt.Sprintf("    %s -->|%s| %s", nodeID(n), e.FromField, nodeID(g.Name(e.ToTable)))
			}
			if seen[line] {
				continue
			}
			seen[line] = true
			b.WriteString(line + "\n")
		}
	}

	fmt.Fprintf(&b, "    class %s center\n", nodeID(g.Name(center)))
	b.WriteString("    classDef center stroke-width:3px\n")
	return b.String(), nil
}

// nodeID turns a table name into a Mermaid node identifier.
func nodeID(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
