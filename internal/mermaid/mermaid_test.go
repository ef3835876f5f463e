package mermaid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/axmeta/internal/graph"
	"github.com/dbsmedya/axmeta/internal/types"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.BuildFromEdges([]types.RelationEdge{
		{FromTable: "SalesLine", FromField: "SalesId", ToTable: "SalesTable", ToField: "SalesId"},
		{FromTable: "SalesLine", FromField: "SalesId", ToTable: "SalesTable", ToField: "SalesId"},
		{FromTable: "SalesLine", ToTable: "SalesTable", ToField: "SalesType"},
		{FromTable: "SalesTable", FromField: "CustAccount", ToTable: "CustTable", ToField: "AccountNum"},
		{FromTable: "CustTable", FromField: "CustGroup", ToTable: "CustGroup", ToField: "CustGroup"},
	})
	require.NoError(t, err)
	return g
}

func TestRender(t *testing.T) {
	out, err := Render(testGraph(t), "salestable", nil)
	require.NoError(t, err)

	want := `graph LR
    SalesTable["SalesTable"]
    CustTable["CustTable"]
    SalesLine["SalesLine"]
    SalesTable -->|CustAccount| CustTable
    SalesLine -->|SalesId| SalesTable
    SalesLine -.->|SalesType| SalesTable
    class SalesTable center
    classDef center stroke-width:3px
`
	assert.Equal(t, want, out)
}

func TestRenderDepth(t *testing.T) {
	out, err := Render(testGraph(t), "SalesTable", &Config{Direction: "td", Depth: 2})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `CustGroup["CustGroup"]`)
	assert.Contains(t, out, "CustTable -->|CustGroup| CustGroup")
}

func TestRenderErrors(t *testing.T) {
	_, err := Render(testGraph(t), "VendTable", nil)
	assert.ErrorContains(t, err, "does not appear")

	_, err = Render(testGraph(t), "SalesTable", &Config{Direction: "UP", Depth: 1})
	assert.ErrorContains(t, err, "unsupported direction")
}

func TestNodeID(t *testing.T) {
	assert.Equal(t, "CustTable", nodeID("CustTable"))
	assert.Equal(t, "Cust_Table_1", nodeID("Cust-Table.1"))
}
