package store

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaTreeHasAllPrincipalTables(t *testing.T) {
	tree := newSchemaTree()
	for _, name := range []string{"licenses", "entities", "amateur_operators", "history", "comments", "special_conditions"} {
		tbl, ok := tree.Table(name)
		require.True(t, ok, "expected table %s", name)
		require.NotEmpty(t, tbl.columns)
	}

	_, ok := tree.Table("LICENSES")
	require.True(t, ok, "Table lookup should be case-insensitive")
}

func TestSchemaGraphHasEdgesToLicenses(t *testing.T) {
	g := SchemaGraph()
	dotSource := g.String()
	require.Contains(t, dotSource, "licenses")
	require.Contains(t, dotSource, "entities")
	require.True(t, strings.Contains(dotSource, "->"), "expected at least one foreign-key edge")
}

func TestRenderSchemaGraphWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.png")
	err := RenderSchemaGraph(path)
	require.NoError(t, err)
}
