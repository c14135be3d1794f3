package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emicklei/dot"
	"github.com/goccy/go-graphviz"
)

// tableColumn is one column of a principal table, annotated with whether
// it participates in the foreign key back to licenses.unique_system_identifier.
type tableColumn struct {
	name       string
	references string // non-empty: "<table>.<column>" this column references
}

// tableNode is one node of the schema tree: a table and its columns.
// SQLite identifiers are case-insensitive, so lookups by name are too.
type tableNode struct {
	name    string
	columns []tableColumn
}

// schemaTree holds every principal table, built once by newSchemaTree.
type schemaTree struct {
	tables []*tableNode
}

func newSchemaTree() *schemaTree {
	t := &schemaTree{}
	t.addTable("licenses", []tableColumn{
		{name: "unique_system_identifier"},
		{name: "uls_file_number"},
		{name: "call_sign"},
		{name: "license_status"},
		{name: "radio_service_code"},
		{name: "grant_date"},
		{name: "expired_date"},
		{name: "cancellation_date"},
		{name: "effective_date"},
		{name: "last_action_date"},
	})
	t.addTable("entities", []tableColumn{
		{name: "unique_system_identifier", references: "licenses.unique_system_identifier"},
		{name: "entity_type"},
		{name: "entity_name"},
		{name: "frn"},
	})
	t.addTable("amateur_operators", []tableColumn{
		{name: "unique_system_identifier", references: "licenses.unique_system_identifier"},
		{name: "operator_class"},
		{name: "trustee_call_sign"},
	})
	t.addTable("history", []tableColumn{
		{name: "unique_system_identifier", references: "licenses.unique_system_identifier"},
		{name: "log_date"},
		{name: "code"},
	})
	t.addTable("comments", []tableColumn{
		{name: "unique_system_identifier", references: "licenses.unique_system_identifier"},
		{name: "comment_date"},
		{name: "description"},
	})
	t.addTable("special_conditions", []tableColumn{
		{name: "unique_system_identifier", references: "licenses.unique_system_identifier"},
		{name: "type_code"},
		{name: "code"},
	})
	return t
}

// addTable appends a table, case-insensitively replacing one of the same
// name if already present.
func (t *schemaTree) addTable(name string, columns []tableColumn) {
	for i, existing := range t.tables {
		if strings.EqualFold(existing.name, name) {
			t.tables[i] = &tableNode{name: name, columns: columns}
			return
		}
	}
	t.tables = append(t.tables, &tableNode{name: name, columns: columns})
}

// Table looks up a table by case-insensitive name.
func (t *schemaTree) Table(name string) (*tableNode, bool) {
	for _, tbl := range t.tables {
		if strings.EqualFold(tbl.name, name) {
			return tbl, true
		}
	}
	return nil, false
}

// Tables returns every table sorted by name.
func (t *schemaTree) Tables() []*tableNode {
	out := append([]*tableNode(nil), t.tables...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// SchemaGraph builds a directed graph of the six principal tables and
// their foreign keys into licenses.unique_system_identifier.
func SchemaGraph() *dot.Graph {
	tree := newSchemaTree()
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "LR")

	nodes := make(map[string]dot.Node, len(tree.tables))
	for _, tbl := range tree.Tables() {
		label := tbl.name
		for _, col := range tbl.columns {
			label += "\n" + col.name
		}
		n := g.Node(tbl.name).Attr("shape", "box").Attr("label", label)
		nodes[tbl.name] = n
	}

	for _, tbl := range tree.Tables() {
		for _, col := range tbl.columns {
			if col.references == "" {
				continue
			}
			parts := strings.SplitN(col.references, ".", 2)
			refTable := parts[0]
			if refTable == tbl.name {
				continue
			}
			if target, ok := nodes[refTable]; ok {
				g.Edge(nodes[tbl.name], target, col.name)
			}
		}
	}
	return g
}

// RenderSchemaGraph writes the schema ERD to path as a PNG, rasterizing
// the dot source SchemaGraph produces. Exposed as a `datlint --graph`
// diagnostic.
func RenderSchemaGraph(path string) error {
	g := SchemaGraph()
	gv := graphviz.New()
	graph, err := graphviz.ParseBytes([]byte(g.String()))
	if err != nil {
		return fmt.Errorf("store: parse schema graph: %w", err)
	}
	defer graph.Close()
	if err := gv.RenderFilename(graph, graphviz.PNG, path); err != nil {
		return fmt.Errorf("store: render schema graph: %w", err)
	}
	return nil
}
