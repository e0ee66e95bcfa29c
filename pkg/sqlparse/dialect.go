package sqlparse

import "strings"

// Dialect carries the per-backend naming defaults that drive qualifier
// elision during reference extraction.
type Dialect struct {
	// Name identifies the dialect, e.g. "duckdb" or "postgres".
	Name string

	// DefaultCatalog is the catalog name the backend implies when a
	// reference omits it. Empty when the backend has no catalog notion.
	DefaultCatalog string

	// DefaultSchema is the schema name the backend implies when a
	// reference omits it.
	DefaultSchema string
}

var dialects = map[string]Dialect{
	"duckdb":     {Name: "duckdb", DefaultCatalog: "memory", DefaultSchema: "main"},
	"postgres":   {Name: "postgres", DefaultSchema: "public"},
	"postgresql": {Name: "postgresql", DefaultSchema: "public"},
	"sqlite":     {Name: "sqlite", DefaultSchema: "main"},
	"mysql": {Name: "mysql"},

	// clickhouse has no schema level. Its implicit database "default"
	// sits in the schema slot because two-part clickhouse names parse
	// as database.table, so definition extraction scrubs it from the
	// referenced containers.
	"clickhouse": {Name: "clickhouse", DefaultSchema: "default"},
}

// GetDialect returns the dialect registered under name. Unknown names
// fall back to a bare dialect with no defaults, so extraction still
// works with qualifiers reported as written.
func GetDialect(name string) Dialect {
	if d, ok := dialects[strings.ToLower(name)]; ok {
		return d
	}
	return Dialect{Name: strings.ToLower(name)}
}
