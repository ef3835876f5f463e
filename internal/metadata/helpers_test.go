package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/axmeta/internal/logger"
	"github.com/dbsmedya/axmeta/internal/pathindex"
	"github.com/dbsmedya/axmeta/internal/types"
)

// fixture writes descriptors into a temp dir and registers them in an index.
type fixture struct {
	t   *testing.T
	dir string
	idx *pathindex.Index
	n   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, dir: t.TempDir(), idx: pathindex.New()}
}

func (f *fixture) write(name, content string) string {
	f.t.Helper()
	f.n++
	path := filepath.Join(f.dir, fmt.Sprintf("%02d_%s.xml", f.n, name))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (f *fixture) table(name, body string) {
	f.idx.Tables[strings.ToLower(name)] = f.write(name, tableXML(name, body))
}

func (f *fixture) tableExtension(name, body string) {
	k := strings.ToLower(name)
	f.idx.TableExtensions[k] = append(f.idx.TableExtensions[k], f.write(name+".Extension", tableXML(name, body)))
}

func (f *fixture) edt(name, label, extends string) {
	xml := "<AxEdt><Name>" + name + "</Name>"
	if label != "" {
		xml += "<Label>" + label + "</Label>"
	}
	if extends != "" {
		xml += "<Extends>" + extends + "</Extends>"
	}
	xml += "</AxEdt>"
	f.idx.ExtendedTypes[strings.ToLower(name)] = f.write(name, xml)
}

func (f *fixture) enum(name, label, values string) {
	xml := "<AxEnum><Name>" + name + "</Name><Label>" + label + "</Label><EnumValues>" + values + "</EnumValues></AxEnum>"
	f.idx.Enums[strings.ToLower(name)] = f.write(name, xml)
}

func (f *fixture) enumExtension(name, values string) {
	k := strings.ToLower(name)
	xml := "<AxEnumExtension><Name>" + name + ".Ext</Name><EnumValues>" + values + "</EnumValues></AxEnumExtension>"
	f.idx.EnumExtensions[k] = append(f.idx.EnumExtensions[k], f.write(name+".Extension", xml))
}

func (f *fixture) service(columns ColumnSource) *Service {
	s := NewService(Config{Columns: columns, Logger: logger.NewNop()})
	s.SetIndex(f.idx)
	return s
}

func tableXML(name, body string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<AxTable xmlns:i="http://www.w3.org/2001/XMLSchema-instance" xmlns="Microsoft.Dynamics.AX.Metadata.V6">
	<Name>` + name + `</Name>` + body + `
</AxTable>`
}

func field(name, label, edt, enum string) string {
	s := `<AxTableField xmlns=""><Name>` + name + `</Name>`
	if label != "" {
		s += `<Label>` + label + `</Label>`
	}
	if edt != "" {
		s += `<ExtendedDataType>` + edt + `</ExtendedDataType>`
	}
	if enum != "" {
		s += `<EnumType>` + enum + `</EnumType>`
	}
	return s + `</AxTableField>`
}

func fields(items ...string) string {
	return "<Fields>" + strings.Join(items, "") + "</Fields>"
}

func relation(related string, pairs ...string) string {
	s := `<AxTableRelation xmlns=""><Name>` + related + `</Name><RelatedTable>` + related + `</RelatedTable><Constraints>`
	for i := 0; i+1 < len(pairs); i += 2 {
		s += `<AxTableRelationConstraint xmlns=""><Field>` + pairs[i] + `</Field><RelatedField>` + pairs[i+1] +
			`</RelatedField></AxTableRelationConstraint>`
	}
	return s + `</Constraints></AxTableRelation>`
}

func relations(items ...string) string {
	return "<Relations>" + strings.Join(items, "") + "</Relations>"
}

func enumValue(name, label, value string) string {
	s := "<AxEnumValue><Name>" + name + "</Name>"
	if label != "" {
		s += "<Label>" + label + "</Label>"
	}
	if value != "" {
		s += "<Value>" + value + "</Value>"
	}
	return s + "</AxEnumValue>"
}

type stubColumns struct {
	columns []types.Column
	err     error
	calls   int
}

func (s *stubColumns) TableColumns(_ context.Context, _ string) ([]types.Column, error) {
	s.calls++
	return s.columns, s.err
}
