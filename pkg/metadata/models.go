// Package metadata holds the shared introspection value types. All of
// them are pure snapshots: rebuilt on every introspection call, never
// mutated in place, and carrying no references back to the connection
// they came from.
//
// The JSON field names are a stable contract with existing consumers
// and must not change.
package metadata

// TableType distinguishes tables from views in listings.
type TableType string

// Table types.
const (
	TableTypeTable TableType = "table"
	TableTypeView  TableType = "view"
)

// DataTableColumn describes one column of a table.
type DataTableColumn struct {
	Name string   `json:"name"`
	Type DataType `json:"type"`

	// ExternalType is the backend's native type string, kept verbatim.
	ExternalType string `json:"external_type"`
	SampleValues []any  `json:"sample_values,omitempty"`
}

// DataTable describes a table or view. NumRows and NumColumns are nil
// when the backend did not report them.
type DataTable struct {
	Name        string            `json:"name"`
	Type        TableType         `json:"type"`
	NumRows     *int64            `json:"num_rows"`
	NumColumns  *int              `json:"num_columns"`
	Columns     []DataTableColumn `json:"columns"`
	PrimaryKeys []string          `json:"primary_keys,omitempty"`
	Indexes     []string          `json:"indexes,omitempty"`
}

// Schema groups tables within a database. Backends without a schema
// concept report a single schema with an empty name.
type Schema struct {
	Name   string      `json:"name"`
	Tables []DataTable `json:"tables"`
}

// Database is the top level of the introspection hierarchy.
type Database struct {
	Name    string   `json:"name"`
	Dialect string   `json:"dialect"`
	Engine  string   `json:"engine,omitempty"`
	Schemas []Schema `json:"schemas"`
}

// DataSourceConnection is the descriptor consumers render for one
// engine: where it points, how to talk to it, and what it contains.
type DataSourceConnection struct {
	Source      string     `json:"source"`
	Dialect     string     `json:"dialect"`
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	Databases   []Database `json:"databases"`
}
