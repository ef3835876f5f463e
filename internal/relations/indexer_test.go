package relations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/axmeta/internal/cachefile"
	"github.com/dbsmedya/axmeta/internal/logger"
	"github.com/dbsmedya/axmeta/internal/pathindex"
	"github.com/dbsmedya/axmeta/internal/types"
)

const salesLineXML = `<?xml version="1.0" encoding="utf-8"?>
<AxTable xmlns:i="http://www.w3.org/2001/XMLSchema-instance" xmlns="Microsoft.Dynamics.AX.Metadata.V6">
	<Name>SalesLine</Name>
	<Relations>
		<AxTableRelation xmlns="" i:type="AxTableRelationForeignKey">
			<Name>InventTable</Name>
			<RelatedTable>InventTable</RelatedTable>
			<Constraints>
				<AxTableRelationConstraint xmlns="" i:type="AxTableRelationConstraintField">
					<Name>ItemId</Name>
					<Field>ItemId</Field>
					<RelatedField>ItemId</RelatedField>
				</AxTableRelationConstraint>
			</Constraints>
		</AxTableRelation>
		<AxTableRelation xmlns="" i:type="AxTableRelationForeignKey">
			<Name>SalesTable</Name>
			<RelatedTable>SalesTable</RelatedTable>
			<Constraints>
				<AxTableRelationConstraint xmlns="" i:type="AxTableRelationConstraintField">
					<Name>SalesId</Name>
					<Field>SalesId</Field>
					<RelatedField>SalesId</RelatedField>
				</AxTableRelationConstraint>
				<AxTableRelationConstraint xmlns="" i:type="AxTableRelationConstraintRelatedFixed">
					<Name>Type</Name>
					<RelatedField>SalesType</RelatedField>
					<Value>3</Value>
				</AxTableRelationConstraint>
			</Constraints>
		</AxTableRelation>
	</Relations>
</AxTable>`

const salesLineExtXML = `<?xml version="1.0" encoding="utf-8"?>
<AxTableExtension xmlns:i="http://www.w3.org/2001/XMLSchema-instance">
	<Name>SalesLine.Extension_Custom</Name>
	<Relations>
		<AxTableRelation xmlns="">
			<RelatedTable>Warehouse</RelatedTable>
			<Constraints>
				<AxTableRelationConstraint xmlns="" i:type="AxTableRelationConstraintField">
					<Field>WarehouseId</Field>
					<RelatedField>Id</RelatedField>
				</AxTableRelationConstraint>
			</Constraints>
		</AxTableRelation>
	</Relations>
</AxTableExtension>`

func writeFile(t *testing.T, content string, parts ...string) string {
	t.Helper()
	path := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, salesLineXML, root, "ApplicationSuite", "Foundation", pathindex.TableDir, "SalesLine.xml")
	writeFile(t, salesLineExtXML, root, "Custom", "CustomModel", pathindex.TableExtensionDir, "SalesLine.Extension_Custom.xml")
	writeFile(t, "<AxTable><Relations>", root, "Custom", "CustomModel", pathindex.TableDir, "Broken.xml")
	writeFile(t, salesLineXML, root, "ApplicationSuite", "Descriptor", pathindex.TableDir, "Ignored.xml")
	return root
}

func newTestIndexer(root, cache string) *Indexer {
	return NewIndexer(root, cache, 2, logger.NewNop())
}

func TestScan(t *testing.T) {
	x := newTestIndexer(buildTree(t), filepath.Join(t.TempDir(), "relations.json"))

	edges, err := x.Scan(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []types.RelationEdge{
		{FromTable: "SalesLine", FromField: "ItemId", ToTable: "InventTable", ToField: "ItemId"},
		{FromTable: "SalesLine", FromField: "SalesId", ToTable: "SalesTable", ToField: "SalesId"},
		{FromTable: "SalesLine", FromField: "", ToTable: "SalesTable", ToField: "SalesType"},
		{FromTable: "SalesLine", FromField: "WarehouseId", ToTable: "Warehouse", ToField: "Id"},
	}, edges)
}

func TestScanMissingRoot(t *testing.T) {
	x := newTestIndexer(filepath.Join(t.TempDir(), "absent"), filepath.Join(t.TempDir(), "relations.json"))
	_, err := x.Scan(context.Background())
	assert.Error(t, err)
}

func TestScanCancelled(t *testing.T) {
	x := newTestIndexer(buildTree(t), filepath.Join(t.TempDir(), "relations.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := x.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildAllPersistsAndReuses(t *testing.T) {
	root := buildTree(t)
	cache := filepath.Join(t.TempDir(), "relations.json")

	edges, err := newTestIndexer(root, cache).BuildAll(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, edges, 4)

	var persisted []types.RelationEdge
	require.NoError(t, cachefile.Load(cache, &persisted))
	assert.Len(t, persisted, 4)

	require.NoError(t, os.RemoveAll(root))
	fresh := newTestIndexer(root, cache)
	reused, err := fresh.BuildAll(context.Background(), false)
	require.NoError(t, err)
	assert.ElementsMatch(t, edges, reused)
	assert.ElementsMatch(t, edges, fresh.Edges())

	_, err = fresh.BuildAll(context.Background(), true)
	assert.Error(t, err, "forced rebuild of a removed tree fails")
	assert.Len(t, fresh.Edges(), 4, "previous edges kept")
}

func TestEdgesWithoutCache(t *testing.T) {
	x := newTestIndexer(t.TempDir(), filepath.Join(t.TempDir(), "relations.json"))
	assert.Empty(t, x.Edges())
}

func TestEdgesAreCopies(t *testing.T) {
	x := newTestIndexer(buildTree(t), filepath.Join(t.TempDir(), "relations.json"))
	_, err := x.BuildAll(context.Background(), false)
	require.NoError(t, err)

	edges := x.Edges()
	edges[0].FromTable = "changed"
	assert.NotEqual(t, "changed", x.Edges()[0].FromTable)
}
