package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// writeTree lays out a small module/model tree with one label file and
// returns the path of a config file pointing at it.
func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	model := filepath.Join(dir, "tree", "Sales", "Sales")

	files := map[string]string{
		"AxTable/CustTable.xml": `<?xml version="1.0" encoding="utf-8"?>
<AxTable xmlns:i="http://www.w3.org/2001/XMLSchema-instance">
	<Name>CustTable</Name>
	<Fields>
		<AxTableField xmlns=""><Name>AccountNum</Name><ExtendedDataType>CustAccount</ExtendedDataType></AxTableField>
		<AxTableField xmlns=""><Name>CustGroup</Name><Label>@Sales:Group</Label></AxTableField>
		<AxTableField xmlns=""><Name>Blocked</Name><EnumType>CustBlocked</EnumType></AxTableField>
	</Fields>
	<Relations>
		<AxTableRelation xmlns="">
			<Name>CustGroup</Name>
			<RelatedTable>CustGroup</RelatedTable>
			<Constraints>
				<AxTableRelationConstraint xmlns="" i:type="AxTableRelationConstraintField">
					<Name>CustGroup</Name><Field>CustGroup</Field><RelatedField>CustGroup</RelatedField>
				</AxTableRelationConstraint>
			</Constraints>
		</AxTableRelation>
	</Relations>
</AxTable>`,
		"AxTable/CustGroup.xml": `<AxTable><Name>CustGroup</Name><Fields>` +
			`<AxTableField xmlns=""><Name>CustGroup</Name><Label>@Sales:Group</Label></AxTableField>` +
			`</Fields></AxTable>`,
		"AxEdt/CustAccount.xml": `<AxEdt><Name>CustAccount</Name><Label>@Sales:Account</Label></AxEdt>`,
		"AxEnum/CustBlocked.xml": `<AxEnum><Name>CustBlocked</Name><Label>@Sales:Blocked</Label><EnumValues>` +
			`<AxEnumValue><Name>No</Name><Value>0</Value></AxEnumValue>` +
			`<AxEnumValue><Name>Invoice</Name><Label>@Sales:Invoice</Label></AxEnumValue>` +
			`<AxEnumValue><Name>All</Name></AxEnumValue>` +
			`</EnumValues></AxEnum>`,
		"AxLabelFile/LabelResources/zh-Hans/Sales.zh-Hans.label.txt": "; sales labels\n" +
			"Account=客户账户\nGroup=客户组\nBlocked=已停用\nInvoice=发票\n",
	}
	for name, content := range files {
		path := filepath.Join(model, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfgPath := filepath.Join(dir, "axmeta.yaml")
	cfg := "metadata:\n" +
		"  root: " + filepath.Join(dir, "tree") + "\n" +
		"  cache_dir: " + filepath.Join(dir, "cache") + "\n" +
		"logging:\n" +
		"  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))
	return cfgPath
}

// useConfig points the package flag variables at cfgPath and restores every
// flag variable when the test ends.
func useConfig(t *testing.T, cfgPath string) {
	t.Helper()
	origCfg, origLevel, origFormat, origRoot := cfgFile, logLevel, logFormat, rootDir
	origForce, origRelations, origCount := refreshForce, refreshRelations, fieldsCount
	origRelated, origField, origDepth, origMermaid := relationsRelated, relationsField, relationsDepth, relationsMermaid
	origAddr, origTables := serveAddr, validateTables
	t.Cleanup(func() {
		cfgFile, logLevel, logFormat, rootDir = origCfg, origLevel, origFormat, origRoot
		refreshForce, refreshRelations, fieldsCount = origForce, origRelations, origCount
		relationsRelated, relationsField, relationsDepth, relationsMermaid = origRelated, origField, origDepth, origMermaid
		serveAddr, validateTables = origAddr, origTables
	})
	cfgFile = cfgPath
}

// capture runs run against c with its output redirected to a buffer.
func capture(t *testing.T, c *cobra.Command, run func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c.SetOut(&buf)
	t.Cleanup(func() { c.SetOut(nil) })
	err := run(c, args)
	return buf.String(), err
}
