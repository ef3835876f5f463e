package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/axmeta/internal/graph"
	"github.com/dbsmedya/axmeta/internal/mermaid"
	"github.com/dbsmedya/axmeta/internal/relations"
	"github.com/dbsmedya/axmeta/internal/types"
)

var (
	relationsRelated string
	relationsField   string
	relationsDepth   int
	relationsMermaid bool
)

var relationsCmd = &cobra.Command{
	Use:   "relations <table>",
	Short: "Show the relations of a table",
	Long: `Relations lists the tables a table points at and the tables pointing at
it, using the global relation list (built by 'axmeta refresh --relations').

With --related and --field, the constraints of the relation from the table
to the related table on that field are printed instead.

With --depth, every table within that many hops is listed. With --mermaid,
the neighbourhood is printed as a Mermaid flowchart.

Examples:
  axmeta relations CustTable
  axmeta relations CustTable --related CustGroup --field CustGroup
  axmeta relations CustTable --depth 2 --mermaid`,
	Args: cobra.ExactArgs(1),
	RunE: runRelations,
}

func init() {
	relationsCmd.Flags().StringVar(&relationsRelated, "related", "", "Related table for constraint details")
	relationsCmd.Flags().StringVar(&relationsField, "field", "", "Constrained field for constraint details")
	relationsCmd.Flags().IntVar(&relationsDepth, "depth", 0, "List tables within this many hops")
	relationsCmd.Flags().BoolVar(&relationsMermaid, "mermaid", false, "Print the neighbourhood as a Mermaid flowchart")
	rootCmd.AddCommand(relationsCmd)
}

func runRelations(cmd *cobra.Command, args []string) error {
	table := args[0]
	ctx := context.Background()

	if (relationsRelated == "") != (relationsField == "") {
		return fmt.Errorf("--related and --field must be given together")
	}
	if relationsDepth < 0 {
		return fmt.Errorf("--depth cannot be negative")
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()

	if relationsRelated != "" {
		a.load(ctx)
		return printDetails(out, a, table)
	}

	g, err := graph.BuildFromEdges(a.relations.Edges())
	if err != nil {
		return fmt.Errorf("relation list is invalid: %w", err)
	}
	if !g.Has(table) {
		printWarn(out, "%s does not appear in any relation", table)
		return nil
	}

	if relationsMermaid {
		cfg := mermaid.DefaultConfig()
		if relationsDepth > 0 {
			cfg.Depth = relationsDepth
		}
		diagram, err := mermaid.Render(g, table, cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(out, diagram)
		return nil
	}

	if relationsDepth > 0 {
		printNeighborhood(out, g, table, relationsDepth)
		return nil
	}

	name := g.Name(table)
	heading(out, "%s references (%d)", name, g.OutDegree(table))
	renderTable(out, []string{"FIELD", "TABLE", "RELATED FIELD"}, edgeRows(g.Outgoing(table), false))
	fmt.Fprintln(out)
	heading(out, "%s is referenced by (%d)", name, g.InDegree(table))
	renderTable(out, []string{"TABLE", "FIELD", "RELATED FIELD"}, edgeRows(g.Incoming(table), true))
	return nil
}

func printDetails(out io.Writer, a *app, table string) error {
	details, err := relations.Details(a.svc.Index(), table, relationsRelated, relationsField)
	if err != nil {
		return err
	}
	if len(details) == 0 {
		printWarn(out, "No relation from %s to %s on %s", table, relationsRelated, relationsField)
		return nil
	}

	heading(out, "%s -> %s (%s)", table, relationsRelated, relationsField)
	rows := make([][]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, []string{d.SourceField, d.TargetField})
	}
	renderTable(out, []string{"SOURCE", "TARGET"}, rows)
	return nil
}

func printNeighborhood(out io.Writer, g *graph.Graph, table string, depth int) {
	hood := g.Neighborhood(table, depth)
	names := make([]string, 0, len(hood))
	for name := range hood {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if hood[names[i]] != hood[names[j]] {
			return hood[names[i]] < hood[names[j]]
		}
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	heading(out, "Tables within %d hops of %s", depth, g.Name(table))
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{strconv.Itoa(hood[name]), name})
	}
	renderTable(out, []string{"HOPS", "TABLE"}, rows)
}

func edgeRows(edges []types.RelationEdge, incoming bool) [][]string {
	rows := make([][]string, 0, len(edges))
	for _, e := range edges {
		field := e.FromField
		if field == "" {
			field = relations.FixedSource
		}
		if incoming {
			rows = append(rows, []string{e.FromTable, field, e.ToField})
		} else {
			rows = append(rows, []string{field, e.ToTable, e.ToField})
		}
	}
	return rows
}
