package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/axmeta/internal/labels"
	"github.com/dbsmedya/axmeta/internal/logger"
	"github.com/dbsmedya/axmeta/internal/pathindex"
)

func writeTreeFile(t *testing.T, content string, parts ...string) {
	t.Helper()
	path := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTreeService(t *testing.T, root string) *Service {
	t.Helper()
	cache := t.TempDir()
	log := logger.NewNop()
	return NewService(Config{
		Paths:  pathindex.NewBuilder(root, filepath.Join(cache, "paths.json"), 2, log),
		Labels: labels.NewLoader(root, "zh-Hans", filepath.Join(cache, "labels.json"), 2, log),
		Logger: log,
	})
}

func TestRefreshAll(t *testing.T) {
	root := t.TempDir()
	writeTreeFile(t, tableXML("CustTable", fields(field("AccountNum", "@Cust:AccountNum", "", ""))),
		root, "ApplicationSuite", "Foundation", pathindex.TableDir, "CustTable.xml")
	writeTreeFile(t, "AccountNum=客户账号\n",
		root, "ApplicationSuite", "Foundation", "AxLabelFile", "LabelResources", "zh-Hans", "Cust.zh-Hans.label.txt")

	s := newTreeService(t, root)
	require.NoError(t, s.RefreshAll(context.Background(), false))

	_, ok := s.Index().Table("custtable")
	assert.True(t, ok)
	assert.Equal(t, "客户账号", s.Catalog().Text("@Cust:AccountNum"))

	rows, err := s.ResolveFields(context.Background(), "CustTable")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "客户账号", rows[0].Label)
}

func TestRefreshAllKeepsPreviousStateOnFailure(t *testing.T) {
	root := t.TempDir()
	writeTreeFile(t, tableXML("CustTable", ""), root, "M", "Model", pathindex.TableDir, "CustTable.xml")
	writeTreeFile(t, "X=Y\n", root, "M", "Model", "AxLabelFile", "LabelResources", "zh-Hans", "F.zh-Hans.label.txt")

	s := newTreeService(t, root)
	require.NoError(t, s.RefreshAll(context.Background(), true))
	before := s.Index()
	catalog := s.Catalog()

	require.NoError(t, os.RemoveAll(root))
	err := s.RefreshAll(context.Background(), true)
	require.Error(t, err)

	assert.Same(t, before, s.Index())
	assert.Same(t, catalog, s.Catalog())
}

func TestServiceDefaults(t *testing.T) {
	s := NewService(Config{})
	assert.Equal(t, DefaultMaxExtendsDepth, s.maxDepth)
	assert.True(t, s.Index().Empty())
	assert.Equal(t, 0, s.Catalog().Len())
	assert.NoError(t, s.RefreshAll(context.Background(), false), "nothing to refresh")
}
